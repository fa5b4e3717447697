package command

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultGreeting = "Hello! I am online. Use /ask followed by your question."
	DefaultHelp     = "Use /ask followed by your question or /image followed by the text for the image."
)

// Static replies with a fixed text. It serves /start and unrecognized input.
type Static struct {
	textSender port.TextSender
	text       string
	command    domain.CommandKind
}

func NewStart(textSender port.TextSender, greeting string) *Static {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &Static{textSender: textSender, text: greeting, command: domain.Start}
}

func NewHelp(textSender port.TextSender, help string) *Static {
	if help == "" {
		help = DefaultHelp
	}
	return &Static{textSender: textSender, text: help, command: domain.Unrecognized}
}

func (s *Static) GetCommand() domain.CommandKind {
	return s.command
}

func (s *Static) Respond(ctx context.Context, timeout time.Duration, message *domain.Message, _ domain.Command) error {
	log.Debug().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Stringer("command", s.command).
		Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.textSender.SendMessage(ctx, message.ChatID, s.text); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}
