package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel               = "gemini-1.5-flash"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 30 * time.Second
)

var errAPIKeyRequired = errors.New("gemini api key is required")

// Client wraps the Gemini generateContent API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
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

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(model)
		if trimmed != "" {
			c.model = trimmed
		}
	}
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the Gemini client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.model == "" {
		client.model = defaultModel
	}

	return client, nil
}

// GenerateRequest describes a single generateContent call.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  *float64
}

type generatePayload struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// GenerateText sends the prompt and returns the first candidate's text.
func (c *Client) GenerateText(ctx context.Context, req GenerateRequest) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}

	payload := generatePayload{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if strings.TrimSpace(req.SystemPrompt) != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}
	if req.Temperature != nil {
		payload.GenerationConfig = &generationConfig{Temperature: req.Temperature}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal generate request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build generate request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute generate request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "generate request failed")
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode generate response")
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "generate response contained no candidates")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
