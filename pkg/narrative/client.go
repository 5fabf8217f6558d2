package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.openai.com/v1"
	defaultModel               = "gpt-4o-mini"
	requestBodyReadLimit int64 = 1024
)

const systemPrompt = `You turn a traveler's raw voice transcript into bilingual travel journal content. ` +
	`Respond with a single JSON object: "sections" (ordered array of {"english","hindi","topic"} paragraph pairs), ` +
	`"summary" (overall day summary), optional "logistics" ({"hotel_name","hotel_cost","transport_mode","transport_cost"}, ` +
	`only fields actually mentioned), optional "food_logistics" ({"breakfast","lunch","dinner"}, each {"name","cost","restaurant"}, ` +
	`only meals actually mentioned), optional "suggested_title" and "suggested_location". ` +
	`Costs are plain non-negative numbers. Omit anything the transcript does not mention.`

var errAPIKeyRequired = errors.New("narrative api key is required")

// Client wraps the narrative generation API: one blocking round trip per
// transcript increment, no retry. Malformed output is a hard failure for the
// cycle.
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

// WithBaseURL overrides the configured generation base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(model)
		if trimmed != "" {
			c.model = trimmed
		}
	}
}

// NewClient builds the narrative generation client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	// No client-side timeout: cancellation comes from the caller's context.
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

// SectionContext is prior-section context sent for narrative continuity.
type SectionContext struct {
	Topic   string `json:"topic"`
	English string `json:"english"`
}

// Generate sends the transcript increment plus prior sections and returns the
// parsed structured bundle.
func (c *Client) Generate(ctx context.Context, transcript string, prior []SectionContext) (*Result, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "narrative client not configured")
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transcript is required")
	}

	userPayload := struct {
		Transcript    string           `json:"transcript"`
		PriorSections []SectionContext `json:"prior_sections"`
	}{
		Transcript:    transcript,
		PriorSections: prior,
	}
	userContent, err := json.Marshal(userPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal generation context")
	}

	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": string(userContent)},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal generation request")
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute generation request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "generation request failed")
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode generation response")
	}
	if len(apiResp.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "generation response contained no choices")
	}

	result, err := ParseResult(apiResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParseResult decodes the model's JSON content into a Result. Non-JSON or
// structurally invalid content fails the cycle.
func ParseResult(content string) (*Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "generation returned empty content")
	}

	decoder := json.NewDecoder(strings.NewReader(trimmed))
	var result Result
	if err := decoder.Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generation returned unparseable content")
	}

	for _, section := range result.Sections {
		if strings.TrimSpace(section.English) == "" && strings.TrimSpace(section.Hindi) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "generation returned a section with no content")
		}
	}

	return &result, nil
}
