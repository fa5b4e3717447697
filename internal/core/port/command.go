package port

import (
	"bedrockbot/internal/core/domain"
	"context"
	"time"
)

type Command interface {
	// Respond handles a classified message within the given timeout and replies to the originating chat.
	Respond(ctx context.Context, timeout time.Duration, message *domain.Message, command domain.Command) error
	// GetCommand returns the command kind the handler is registered for.
	GetCommand() domain.CommandKind
}

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves the handler registered for a command kind or returns an error if not found.
	Get(kind domain.CommandKind) (Command, error)
	// ListCommands returns all command kinds currently registered.
	ListCommands() []domain.CommandKind
}

type UpdateDispatcher interface {
	// Handle processes a single update. It must not return until all replies for the update were attempted.
	Handle(ctx context.Context, update domain.Update)
}
