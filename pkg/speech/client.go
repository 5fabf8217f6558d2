package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.openai.com/v1"
	defaultModel               = "whisper-1"
	requestBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("speech api key is required")

// Client wraps the transcription API. The audio payload is opaque; only the
// declared MIME type is forwarded.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured transcription base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithModel overrides the transcription model.
func WithModel(model string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(model)
		if trimmed != "" {
			c.model = trimmed
		}
	}
}

// NewClient builds the transcription client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	// No client-side timeout: cancellation comes from the caller's context,
	// and a hang blocks only the active recording cycle.
	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Transcribe sends the audio payload and returns the best-effort transcript.
// An empty transcript is a valid outcome, not an error.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "speech client not configured")
	}
	if len(audio) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "audio payload is required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filenameFor(mimeType))}
	header["Content-Type"] = []string{normalizeMIME(mimeType)}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build transcription payload")
	}
	if _, err := part.Write(audio); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write transcription payload")
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write transcription model field")
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize transcription payload")
	}

	url := fmt.Sprintf("%s/audio/transcriptions", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build transcription request")
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute transcription request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "transcription request failed")
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode transcription response")
	}

	return apiResp.Text, nil
}

func normalizeMIME(mimeType string) string {
	trimmed := strings.TrimSpace(mimeType)
	if trimmed == "" {
		return "application/octet-stream"
	}
	// strip codec parameters like ";codecs=opus"
	if idx := strings.Index(trimmed, ";"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func filenameFor(mimeType string) string {
	switch normalizeMIME(mimeType) {
	case "audio/webm":
		return "capture.webm"
	case "audio/ogg":
		return "capture.ogg"
	case "audio/wav", "audio/x-wav":
		return "capture.wav"
	case "audio/mpeg", "audio/mp3":
		return "capture.mp3"
	case "audio/mp4", "audio/m4a":
		return "capture.m4a"
	default:
		return "capture.bin"
	}
}
