package port

import (
	"bedrockbot/internal/core/domain"
	"context"
	"time"
)

type UpdateFetcher interface {
	// GetUpdates long-polls for updates starting at offset, holding the request open for up to timeout.
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]domain.Update, error)
}

type SessionStore interface {
	// Append records a question for a chat and returns the new session length.
	Append(chatID int64, question string) int
	// Questions returns a copy of the questions recorded for a chat.
	Questions(chatID int64) []string
}
