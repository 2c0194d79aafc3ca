package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/metrics"
	httpClient "github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/platform/http"
)

// Client is an OpenAI-compatible chat completions client used for
// structured-output agent invocations.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new chat client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	Model           string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new chat completions client
func NewClient(options ClientOptions) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := options.Model
	if model == "" {
		model = "gpt-4o"
	}

	return &Client{
		apiKey:  options.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetries:      options.MaxRetries,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "openai_client").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a system + user message pair and returns the raw assistant
// content. The request asks for a JSON object response so the caller can
// decode it against a role schema.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	start := time.Now()
	var resp chatResponse
	err := c.httpClient.PostJSON(ctx, c.baseURL+"/chat/completions", headers, reqBody, &resp)
	metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelErrors.Inc()
		c.logger.Error().Err(err).Msg("Chat completion request failed")
		return "", err
	}

	if resp.Error != nil {
		metrics.ModelErrors.Inc()
		return "", fmt.Errorf("chat API error (%s): %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		metrics.ModelErrors.Inc()
		return "", fmt.Errorf("chat API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
