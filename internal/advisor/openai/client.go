// Package openai provides a minimal OpenAI chat-completions client used by
// the walk advisor. Responses are requested as JSON objects.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this scoring provider.
	ProviderName = "openai"

	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when none is configured.
	DefaultModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI client.
type ClientConfig struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// Model selects the chat model (default: gpt-4o-mini).
	Model string

	// Timeout bounds a single completion call (default: 30 seconds).
	Timeout time.Duration

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with the configured timeout is used.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the OpenAI chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new OpenAI client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.MaxRetries = 1
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CompleteJSON sends a system prompt plus a JSON payload as the user turn
// and returns the model's JSON-object reply.
func (c *Client) CompleteJSON(ctx context.Context, system string, payload any) (json.RawMessage, error) {
	user, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: string(user)},
		},
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("empty completion")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	// Models occasionally wrap the object in a code fence despite the
	// response format.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	raw := json.RawMessage(strings.TrimSpace(content))
	if !json.Valid(raw) {
		return nil, errors.New("completion is not valid JSON")
	}
	return raw, nil
}

// OpenAI chat completions API structures.

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}
