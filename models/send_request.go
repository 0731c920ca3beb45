package models

import (
	"strings"

	"github.com/google/uuid"
)

// SendRequest is one attempt at posting to the webhook. It is built fresh for
// every click and never persisted.
type SendRequest struct {
	ID         string `validate:"-"`
	WebhookURL string `validate:"required"`
	Story      string `validate:"required_without=ImagePath"`
	ImagePath  string
}

// NewSendRequest creates a request with a unique ID and trimmed inputs
func NewSendRequest(webhookURL, story, imagePath string) SendRequest {
	return SendRequest{
		ID:         uuid.New().String(),
		WebhookURL: strings.TrimSpace(webhookURL),
		Story:      strings.TrimSpace(story),
		ImagePath:  strings.TrimSpace(imagePath),
	}
}

// HasImage reports whether an image is attached
func (r SendRequest) HasImage() bool {
	return r.ImagePath != ""
}
