package discord

import (
	"context"
	"grannysporch/models"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Sender delivers one request. *Client is the production implementation.
type Sender interface {
	Send(ctx context.Context, req models.SendRequest) error
}

// Result is the outcome of a dispatched send. Err is nil on success, a
// *ValidationError or a *SendError otherwise.
type Result struct {
	RequestID string
	Err       error
}

// OK reports whether the send succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Dispatcher runs sends in the background, at most one at a time
type Dispatcher struct {
	sender   Sender
	inFlight atomic.Bool
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher around sender
func NewDispatcher(sender Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch starts sending req on a new goroutine and hands the outcome to
// done from that goroutine. While a previous send is still running it does
// nothing and returns false; requests are never queued.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.SendRequest, done func(Result)) bool {
	if !d.inFlight.CompareAndSwap(false, true) {
		d.log.Debug().Str("request_id", req.ID).Msg("send already in progress, ignoring")
		return false
	}

	go func() {
		err := d.sender.Send(ctx, req)
		d.inFlight.Store(false)
		if done != nil {
			done(Result{RequestID: req.ID, Err: err})
		}
	}()
	return true
}

// Busy reports whether a send is in flight
func (d *Dispatcher) Busy() bool {
	return d.inFlight.Load()
}
