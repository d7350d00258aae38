// Package llm talks to an OpenAI-compatible chat-completions endpoint
// such as the one Ollama serves under /v1.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liliang-cn/alfred/internal/config"
	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrEmptyResponse is returned when the endpoint answers without any choice
var ErrEmptyResponse = errors.New("completion response has no choices")

// Completer turns a list of role-tagged messages into the assistant's reply
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// Client is a Completer backed by openai-go
type Client struct {
	client openai.Client
	model  string
}

var _ Completer = (*Client)(nil)

// NewClient creates a completion client from the LLM configuration.
// Retries are disabled: a failed call is reported once and abandoned.
func NewClient(cfg config.LLMConfig, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		base = append(base, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &Client{
		client: openai.NewClient(append(base, opts...)...),
		model:  cfg.Model,
	}
}

// Model returns the model name sent with every request
func (c *Client) Model() string {
	return c.model
}

// Complete sends messages and returns the first choice's content
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toParams(messages),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s, %s): %w", c.model, time.Since(start).Round(time.Millisecond), err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func toParams(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
