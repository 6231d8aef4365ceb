package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/logger"
)

// Client talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq).
type Client struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func New(cfg Config, opts ...api.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai-compatible api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
		api.WithHeader("Authorization", "Bearer "+cfg.APIKey),
		api.WithTimeout(cfg.Timeout),
		api.WithLogging(logger.IsDebugEnabled()),
	}, opts...)
	return &Client{
		client:      api.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.client.POST(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var r chatResponse
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
