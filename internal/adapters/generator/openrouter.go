package generator

import (
	"bedrockbot/internal/core/domain"
	"context"
	"errors"
	"fmt"

	"github.com/revrost/go-openrouter"
	"github.com/rs/zerolog/log"
)

type OpenRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		request openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// OpenRouter is an alternative text backend, selected with text.provider = "openrouter".
type OpenRouter struct {
	client OpenRouterClient
	model  string
	config domain.TextConfig
}

func NewOpenRouter(apiKey, model string, config domain.TextConfig) *OpenRouter {
	return &OpenRouter{
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("bedrockbot"),
		),
		model:  model,
		config: config,
	}
}

func (o *OpenRouter) GenerateText(ctx context.Context, prompt domain.TextPrompt) (string, error) {
	ccr := openrouter.ChatCompletionRequest{
		Model: o.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role: openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{
					Text: domain.RenderPrompt(prompt),
				},
			},
		},
		MaxTokens:   o.config.MaxTokens,
		Temperature: float32(o.config.Temperature),
	}

	resp, err := o.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", fmt.Errorf("openrouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned from openrouter response")
	}

	log.Debug().
		Str("model", resp.Model).
		Int("completionTokens", resp.Usage.CompletionTokens).
		Int("totalTokens", resp.Usage.TotalTokens).
		Msg("openrouter response")

	return resp.Choices[0].Message.Content.Text, nil
}
