package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"grannysporch/models"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	payloadFieldName = "payload_json"
	fileFieldName    = "file"

	// cap on how much of a failed response is read for the error message
	maxErrorBody   = 64 << 10
	maxErrorDetail = 200
)

// messagePayload is the JSON body Discord expects for a plain message
type messagePayload struct {
	Content string `json:"content"`
}

// apiError is the JSON error body Discord returns for rejected requests
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Client posts messages to a Discord webhook
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a webhook client. A zero timeout leaves requests
// unbounded.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "discord").Logger(),
	}
}

// Send validates req and issues exactly one POST to its webhook. It returns a
// *ValidationError without touching the network when the request is
// incomplete, and a *SendError for any transport failure or non-2xx status.
// Failed sends are not retried.
func (c *Client) Send(ctx context.Context, req models.SendRequest) error {
	log := c.log.With().Str("request_id", req.ID).Bool("image", req.HasImage()).Logger()

	if err := Validate(req); err != nil {
		log.Debug().Err(err).Msg("send rejected")
		return err
	}

	body, contentType, err := buildBody(req)
	if err != nil {
		log.Error().Err(err).Msg("could not build request body")
		return transportError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.WebhookURL, body)
	if err != nil {
		log.Error().Err(err).Msg("could not create request")
		return transportError(err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("webhook request failed")
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sendErr := statusError(resp.StatusCode, errorDetail(resp))
		log.Error().Int("status", resp.StatusCode).Str("detail", sendErr.Message).Msg("webhook rejected message")
		return sendErr
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Info().Int("status", resp.StatusCode).Dur("elapsed", time.Since(started)).Msg("message sent")
	return nil
}

// buildBody returns a JSON body for text-only requests and a multipart body
// when an image is attached
func buildBody(req models.SendRequest) (io.Reader, string, error) {
	payload, err := json.Marshal(messagePayload{Content: req.Story})
	if err != nil {
		return nil, "", fmt.Errorf("encode payload: %w", err)
	}

	if !req.HasImage() {
		return bytes.NewReader(payload), "application/json", nil
	}
	return multipartBody(payload, req.ImagePath)
}

func multipartBody(payload []byte, imagePath string) (io.Reader, string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, payloadFieldName))
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", err
	}

	// CreateFormFile labels the part application/octet-stream
	filePart, err := writer.CreateFormFile(fileFieldName, filepath.Base(imagePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(filePart, file); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}

// errorDetail pulls a short human-readable reason out of a failed response
func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
			if apiErr.Code != 0 {
				return fmt.Sprintf("%s (code %d)", apiErr.Message, apiErr.Code)
			}
			return apiErr.Message
		}
	case "text/html":
		if title := htmlTitle(raw); title != "" {
			return title
		}
	}
	return truncate(strings.TrimSpace(string(raw)), maxErrorDetail)
}

// htmlTitle returns the page title of an HTML error page, falling back to
// the first heading
func htmlTitle(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return strings.Join(strings.Fields(title), " ")
	}
	return strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
}

func truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
