package handler

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Command classifies incoming messages and runs the matching command handler synchronously.
type Command struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, timeout: timeout}
}

// Handle never returns an error: failures are reported to the chat by the command handlers and logged
// here, so a single message cannot stop the polling loop.
func (c *Command) Handle(ctx context.Context, update domain.Update) {
	l := log.With().Int64("updateId", update.ID).Logger()

	if update.Message == nil {
		l.Debug().Msg("update without message, skipping")
		return
	}

	message := update.Message
	l = l.With().Int64("chatId", message.ChatID).Int("messageId", message.ID).Logger()

	if message.Text == "" {
		l.Debug().Msg("message without text, skipping")
		return
	}

	cmd := domain.ParseCommand(message.Text)
	l = l.With().Stringer("command", cmd.Kind).Logger()
	l.Debug().Str("message", message.Text).Msg("received command")

	commandHandler, err := c.commandRegistry.Get(cmd.Kind)
	if err != nil {
		l.Warn().Err(err).Msg("no handler for command")
		return
	}
	l.Debug().Msg("fetched command handler from registry")

	defer func() {
		if r := recover(); r != nil {
			l.Error().Err(fmt.Errorf("panic: %v", r)).Msg("command handler panicked")
		}
	}()

	start := time.Now()
	err = commandHandler.Respond(ctx, c.timeout, message, cmd)
	if err != nil {
		l.Err(err).Dur("took", time.Since(start)).Msg("failed to respond to command")
		return
	}

	l.Debug().Dur("took", time.Since(start)).Msg("responded to command")
}
