package port

import (
	"bedrockbot/internal/core/domain"
	"context"
)

type TextSender interface {
	// SendMessage sends text to a chat, splitting it into several messages if it exceeds the platform limit.
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendChatAction repeatedly signals activity (e.g., typing, sending photo) in a chat until ctx is done.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
}

type ImageSender interface {
	// SendPhoto uploads raw image bytes to a chat with the given caption.
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
}
