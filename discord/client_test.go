package discord

import (
	"bytes"
	"context"
	"errors"
	"grannysporch/models"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest is what the fake webhook saw
type capturedRequest struct {
	method      string
	contentType string
	body        []byte
}

func newWebhook(t *testing.T, status int, respContentType, respBody string) (*httptest.Server, *atomic.Int32, chan capturedRequest) {
	t.Helper()
	var hits atomic.Int32
	seen := make(chan capturedRequest, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		seen <- capturedRequest{method: r.Method, contentType: r.Header.Get("Content-Type"), body: body}
		if respContentType != "" {
			w.Header().Set("Content-Type", respContentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, seen
}

func newTestClient() *Client {
	return NewClient(0, zerolog.Nop())
}

func TestSendMissingWebhook(t *testing.T) {
	err := newTestClient().Send(context.Background(), models.NewSendRequest("  ", "Hello", ""))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, ErrMissingWebhook)
	assert.Equal(t, "validation error: missing webhook", err.Error())
}

func TestSendMissingWebhookWinsOverEmptyContent(t *testing.T) {
	err := Validate(models.NewSendRequest("", "", ""))
	assert.ErrorIs(t, err, ErrMissingWebhook)
}

func TestSendEmptyContentMakesNoRequest(t *testing.T) {
	srv, hits, _ := newWebhook(t, http.StatusNoContent, "", "")

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, " \n\t", ""))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, hits.Load())
}

func TestSendMissingWebhookMakesNoRequest(t *testing.T) {
	srv, hits, _ := newWebhook(t, http.StatusNoContent, "", "")
	_ = srv

	err := newTestClient().Send(context.Background(), models.NewSendRequest("", "Hello", ""))

	assert.ErrorIs(t, err, ErrMissingWebhook)
	assert.Zero(t, hits.Load())
}

func TestSendStoryOnly(t *testing.T) {
	srv, hits, seen := newWebhook(t, http.StatusNoContent, "", "")

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "Hello", ""))
	require.NoError(t, err)

	assert.EqualValues(t, 1, hits.Load())
	got := <-seen
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, `{"content":"Hello"}`, string(got.body))
}

func TestSendImageOnly(t *testing.T) {
	srv, hits, seen := newWebhook(t, http.StatusOK, "application/json", `{"id":"1"}`)
	imageBytes := []byte("\x89PNG\r\n\x1a\nnot really a png")
	imagePath := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(imagePath, imageBytes, 0644))

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "", imagePath))
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())

	got := <-seen
	parts := readParts(t, got)
	require.Len(t, parts, 2)

	assert.Equal(t, "payload_json", parts[0].name)
	assert.Equal(t, "application/json", parts[0].contentType)
	assert.Equal(t, `{"content":""}`, string(parts[0].body))

	assert.Equal(t, "file", parts[1].name)
	assert.Equal(t, "photo.png", parts[1].filename)
	assert.Equal(t, "application/octet-stream", parts[1].contentType)
	assert.Equal(t, imageBytes, parts[1].body)
}

func TestSendStoryAndImage(t *testing.T) {
	srv, _, seen := newWebhook(t, http.StatusNoContent, "", "")
	imagePath := filepath.Join(t.TempDir(), "porch swing.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg bytes"), 0644))

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "  Sunny today  ", imagePath))
	require.NoError(t, err)

	parts := readParts(t, <-seen)
	require.Len(t, parts, 2)
	assert.Equal(t, `{"content":"Sunny today"}`, string(parts[0].body))
	assert.Equal(t, "porch swing.jpg", parts[1].filename)
}

func TestSendBadRequestIsNotRetried(t *testing.T) {
	srv, hits, _ := newWebhook(t, http.StatusBadRequest, "application/json",
		`{"message": "Cannot send an empty message", "code": 50006}`)

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "Hello", ""))

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, http.StatusBadRequest, sendErr.StatusCode)
	assert.Equal(t, "discord returned 400 Bad Request: Cannot send an empty message (code 50006)", err.Error())
	assert.EqualValues(t, 1, hits.Load())
}

func TestSendHTMLErrorPageUsesTitle(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Access denied |
		discord.com used Cloudflare to restrict access</title></head><body><h1>Error 1015</h1></body></html>`
	srv, _, _ := newWebhook(t, http.StatusForbidden, "text/html; charset=UTF-8", page)

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "Hello", ""))

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "discord returned 403 Forbidden: Access denied | discord.com used Cloudflare to restrict access", sendErr.Message)
}

func TestSendPlainTextErrorBody(t *testing.T) {
	srv, _, _ := newWebhook(t, http.StatusBadGateway, "text/plain", "  upstream unavailable \n")

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "Hello", ""))

	assert.EqualError(t, err, "discord returned 502 Bad Gateway: upstream unavailable")
}

func TestSendTransportFailure(t *testing.T) {
	srv, _, _ := newWebhook(t, http.StatusNoContent, "", "")
	url := srv.URL
	srv.Close()

	err := newTestClient().Send(context.Background(), models.NewSendRequest(url, "Hello", ""))

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Zero(t, sendErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
	assert.NotEmpty(t, sendErr.Message)
}

func TestSendMissingImageFile(t *testing.T) {
	srv, hits, _ := newWebhook(t, http.StatusNoContent, "", "")
	missing := filepath.Join(t.TempDir(), "gone.png")

	err := newTestClient().Send(context.Background(), models.NewSendRequest(srv.URL, "", missing))

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, hits.Load())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

type formPart struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func readParts(t *testing.T, req capturedRequest) []formPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	var parts []formPart
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, formPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			body:        body,
		})
	}
	return parts
}
