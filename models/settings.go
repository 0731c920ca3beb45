package models

import (
	"path/filepath"
	"strings"
)

// Settings represents the persisted user preferences
type Settings struct {
	WebhookURL         string `json:"WebhookUrl,omitempty"`
	LastImageDirectory string `json:"LastImageDirectory,omitempty"`
}

// DefaultSettings returns empty settings, used whenever nothing usable is on disk
func DefaultSettings() *Settings {
	return &Settings{}
}

// SetWebhookURL stores the webhook as typed, minus surrounding whitespace
func (s *Settings) SetWebhookURL(url string) {
	s.WebhookURL = strings.TrimSpace(url)
}

// RememberImage records the parent directory of a picked image as the next
// browse location. An empty path leaves the settings untouched.
func (s *Settings) RememberImage(imagePath string) {
	if strings.TrimSpace(imagePath) == "" {
		return
	}
	s.LastImageDirectory = filepath.Dir(imagePath)
}
