package service

import (
	"bedrockbot/internal/core/port"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Auditor mirrors front-end activity into a fixed log chat. A zero chat ID disables it.
type Auditor struct {
	chatID int64
	sender port.TextSender
}

func NewAuditor(sender port.TextSender, chatID int64) *Auditor {
	return &Auditor{chatID: chatID, sender: sender}
}

func (a *Auditor) Enabled() bool {
	return a != nil && a.chatID != 0 && a.sender != nil
}

func (a *Auditor) Answered(ctx context.Context, question, answer string) {
	a.record(ctx, fmt.Sprintf("Asked: %s\nAnswer: %s", question, answer))
}

func (a *Auditor) ImageGenerated(ctx context.Context, prompt string) {
	a.record(ctx, "Generated Image for: "+prompt)
}

func (a *Auditor) ImageFailed(ctx context.Context, prompt string) {
	a.record(ctx, "Failed to generate image for: "+prompt)
}

func (a *Auditor) record(ctx context.Context, text string) {
	if !a.Enabled() {
		return
	}

	if err := a.sender.SendMessage(ctx, a.chatID, text); err != nil {
		log.Error().Err(err).Int64("chatId", a.chatID).Msg("error sending log message to telegram")
	}
}
