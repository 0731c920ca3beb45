package discord

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingWebhook means no webhook URL was given
	ErrMissingWebhook = errors.New("missing webhook")
	// ErrEmptyContent means there was neither a story nor an image
	ErrEmptyContent = errors.New("empty content")
)

// ValidationError blocks a send before any network I/O happens
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// SendError reports a failed post. StatusCode is zero when the request never
// got a response (DNS, connection reset, unreadable image).
type SendError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SendError) Error() string {
	return e.Message
}

func (e *SendError) Unwrap() error {
	return e.Err
}

func transportError(err error) *SendError {
	return &SendError{Message: err.Error(), Err: err}
}

func statusError(code int, detail string) *SendError {
	msg := fmt.Sprintf("discord returned %d %s", code, http.StatusText(code))
	if detail != "" {
		msg += ": " + detail
	}
	return &SendError{StatusCode: code, Message: msg}
}
