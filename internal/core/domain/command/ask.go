package command

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
	DefaultLanguage   = "english"
	DefaultAskFailure = "Failed to generate a response."
)

type Ask struct {
	textGenerator port.TextGenerator
	textSender    port.TextSender
	sessions      port.SessionStore
	language      string
	template      string
	failureText   string

	l *zerolog.Logger
}

type AskParams struct {
	TextGenerator port.TextGenerator
	TextSender    port.TextSender
	Sessions      port.SessionStore
	Language      string
	Template      string
	FailureText   string
}

func NewAsk(p AskParams) *Ask {
	logger := log.With().
		Str("command", domain.Ask.String()).
		Str("handler", "ask").
		Logger()

	a := &Ask{
		textGenerator: p.TextGenerator,
		textSender:    p.TextSender,
		sessions:      p.Sessions,
		language:      p.Language,
		template:      p.Template,
		failureText:   p.FailureText,
		l:             &logger,
	}

	if a.language == "" {
		a.language = DefaultLanguage
	}
	if a.failureText == "" {
		a.failureText = DefaultAskFailure
	}

	return a
}

func (a *Ask) GetCommand() domain.CommandKind {
	return domain.Ask
}

func (a *Ask) Respond(ctx context.Context, timeout time.Duration, message *domain.Message, cmd domain.Command) error {
	l := a.l.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	count := a.sessions.Append(message.ChatID, cmd.Argument)
	l.Info().Str("question", cmd.Argument).Int("sessionLength", count).Msg("handling request")

	go a.textSender.SendChatAction(ctx, message.ChatID, domain.Typing)

	response, err := a.textGenerator.GenerateText(ctx, domain.TextPrompt{
		Language: a.language,
		Text:     cmd.Argument,
		Template: a.template,
	})
	if err != nil {
		err = fmt.Errorf("failed to generate response: %w", err)
		if sendErr := a.textSender.SendMessage(ctx, message.ChatID, a.failureText); sendErr != nil {
			return errors.Join(err, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, sendErr))
		}
		return err
	}

	l.Debug().Str("response", response).Msg("generated response")

	if err := a.textSender.SendMessage(ctx, message.ChatID, response); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}
