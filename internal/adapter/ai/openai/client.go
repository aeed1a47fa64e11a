package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4-turbo"
)

// httpDoer lets the client run behind a circuit-breaking transport.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the OpenAI API for chat completions, speech synthesis, and
// transcription.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	ttsModel   string
	httpClient httpDoer
	log        *zap.Logger
}

func NewClient(apiKey, model string, log *zap.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		ttsModel:   "tts-1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// SetHTTPClient swaps the underlying transport, typically for a
// circuit-breaking client.
func (c *Client) SetHTTPClient(d httpDoer) {
	c.httpClient = d
}

var _ ports.CompletionClient = (*Client)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (*ports.CompletionResult, error) {
	return c.complete(ctx, system, prompt, nil)
}

func (c *Client) CompleteJSON(ctx context.Context, system, prompt string) (*ports.CompletionResult, error) {
	return c.complete(ctx, system, prompt, &responseFormat{Type: "json_object"})
}

func (c *Client) complete(ctx context.Context, system, prompt string, format *responseFormat) (*ports.CompletionResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.7,
		MaxTokens:      1024,
		ResponseFormat: format,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.CompletionRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.CompletionRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("openai: API error status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		telemetry.CompletionRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		telemetry.CompletionRequestsTotal.WithLabelValues("openai", "empty").Inc()
		return nil, fmt.Errorf("openai: no completion returned")
	}

	telemetry.CompletionRequestsTotal.WithLabelValues("openai", "ok").Inc()
	telemetry.CompletionTokensTotal.WithLabelValues("openai").Add(float64(result.Usage.TotalTokens))

	return &ports.CompletionResult{
		Text:             result.Choices[0].Message.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
	}, nil
}
