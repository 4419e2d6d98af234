package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quocvuong92/shell-ai/internal/constants"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat asks the model for structured output
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema names a schema for json_schema response formats
type JSONSchema struct {
	Name   string      `json:"name"`
	Strict bool        `json:"strict"`
	Schema interface{} `json:"schema"`
}

// ChatRequest represents the Chat Completions API request. Model,
// Temperature and MaxTokens default to the client's endpoint when unset.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      *uint32         `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a response choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ChatResponse represents the API response
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// GetContent returns the first choice's message content
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Truncated reports whether the model stopped at the token limit
func (r *ChatResponse) Truncated() bool {
	return len(r.Choices) > 0 && r.Choices[0].FinishReason == "length"
}

// errorResponse is the error body OpenAI-compatible APIs return
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// APIError represents an error with status code
type APIError struct {
	StatusCode int
	Message    string
	// RetryAfter is the provider's Retry-After hint, zero when absent
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return e.Message
}

// DescribeStatus explains common HTTP failures in terms of configuration
func DescribeStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "authentication failed (check your API key)"
	case code == http.StatusForbidden:
		return "access denied (check your API key permissions)"
	case code == http.StatusNotFound:
		return "endpoint or model not found (check api_base and model)"
	case code == http.StatusTooManyRequests:
		return "rate limited"
	case code >= 500:
		return "provider server error"
	default:
		return fmt.Sprintf("unexpected status %d", code)
	}
}

// Client is a chat completions client for one endpoint
type Client struct {
	httpClient *http.Client
	endpoint   Endpoint
	retry      RetryPolicy
}

// NewClient creates a client. Requests are logged when the default logger
// is at debug level, with bodies at trace level.
func NewClient(ep Endpoint) *Client {
	transport := http.DefaultTransport
	if logging.DefaultLogger.Enabled(logging.LevelDebug) {
		transport = logging.NewTransport(http.DefaultTransport, logging.DefaultLogger)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   constants.DefaultAPITimeout,
			Transport: transport,
		},
		endpoint: ep,
		retry:    DefaultRetryPolicy,
	}
}

// Endpoint returns the endpoint the client talks to
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Complete sends a non-streaming chat completion request, retrying
// transient failures.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.endpoint.Model
	}
	if req.Temperature == nil {
		t := c.endpoint.Temperature
		req.Temperature = &t
	}
	if req.MaxTokens == nil && c.endpoint.MaxTokens > 0 {
		n := c.endpoint.MaxTokens
		req.MaxTokens = &n
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return Retry(ctx, c.retry, func(ctx context.Context) (*ChatResponse, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.URL, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Content-Type", "application/json")
		for k, v := range c.endpoint.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			msg := DescribeStatus(resp.StatusCode)
			var errResp errorResponse
			if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
				msg += ": " + errResp.Error.Message
			}
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s API error: %s", c.endpoint.Provider, msg),
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}

		var chatResp ChatResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if chatResp.Truncated() {
			logging.Warn("Response was truncated at the token limit", logging.Fields{"max_tokens": c.endpoint.MaxTokens})
		}

		return &chatResp, nil
	})
}
