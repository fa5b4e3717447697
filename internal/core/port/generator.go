package port

import (
	"bedrockbot/internal/core/domain"
	"context"
)

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt domain.TextPrompt) (string, error)
}

type ImageGenerator interface {
	// GenerateFromPrompt returns raw image bytes for the prompt.
	GenerateFromPrompt(ctx context.Context, prompt string) ([]byte, error)
}
