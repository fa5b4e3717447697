package service

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxAttempts = 5
	DefaultCooldown    = 60 * time.Second
)

type RetryParams struct {
	Generator   port.ImageGenerator
	MaxAttempts int
	Cooldown    time.Duration
	// PostSuccessDelay is waited after a successful generation before the image is returned.
	PostSuccessDelay time.Duration
}

// RetryingImageGenerator retries throttled image generations with a fixed cooldown. Every failure is
// reported as an error wrapping domain.ErrNoImage.
type RetryingImageGenerator struct {
	generator        port.ImageGenerator
	maxAttempts      int
	cooldown         time.Duration
	postSuccessDelay time.Duration
	sleep            sleepFunc
	l                *zerolog.Logger
}

func NewRetryingImageGenerator(p RetryParams) *RetryingImageGenerator {
	logger := log.With().Str("component", "image_retry").Logger()

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	cooldown := p.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &RetryingImageGenerator{
		generator:        p.Generator,
		maxAttempts:      maxAttempts,
		cooldown:         cooldown,
		postSuccessDelay: p.PostSuccessDelay,
		sleep:            sleepContext,
		l:                &logger,
	}
}

func (r *RetryingImageGenerator) GenerateFromPrompt(ctx context.Context, prompt string) ([]byte, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		r.l.Debug().Int("attempt", attempt).Msg("invoking model for image generation")

		image, err := r.generator.GenerateFromPrompt(ctx, prompt)
		if err == nil {
			if len(image) == 0 {
				r.l.Error().Msg("no images found in response")
				return nil, fmt.Errorf("%w: %w", domain.ErrNoImage, domain.ErrNoImageData)
			}

			if r.postSuccessDelay > 0 {
				r.l.Debug().Dur("delay", r.postSuccessDelay).Msg("waiting before returning image")
				if err := r.sleep(ctx, r.postSuccessDelay); err != nil {
					return nil, fmt.Errorf("%w: %w", domain.ErrNoImage, err)
				}
			}

			return image, nil
		}

		r.l.Error().Err(err).Int("attempt", attempt).Msg("error generating image")

		if !errors.Is(err, domain.ErrThrottled) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoImage, err)
		}

		if attempt == r.maxAttempts {
			break
		}

		r.l.Debug().Dur("cooldown", r.cooldown).Msg("throttled, retrying after cooldown")
		if err := r.sleep(ctx, r.cooldown); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoImage, err)
		}
	}

	r.l.Error().Int("attempts", r.maxAttempts).Msg("max retries reached, failed to generate image")
	return nil, fmt.Errorf("%w: %w", domain.ErrNoImage, domain.ErrRetriesExhausted)
}
