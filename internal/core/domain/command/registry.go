package command

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"
)

var (
	ErrRegistryEmpty   = errors.New("no command handlers registered")
	ErrCommandNotFound = errors.New("command not found")
)

// Registry maps each command kind to exactly one handler. A later registration for the same kind replaces
// the earlier one.
type Registry struct {
	handlers map[domain.CommandKind]port.Command
}

func NewRegistry(handlers ...port.Command) *Registry {
	r := &Registry{handlers: make(map[domain.CommandKind]port.Command, len(handlers))}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

func (r *Registry) Register(handler port.Command) {
	if r.handlers == nil {
		r.handlers = make(map[domain.CommandKind]port.Command)
	}

	kind := handler.GetCommand()
	if _, ok := r.handlers[kind]; ok {
		log.Warn().Stringer("command", kind).Msg("replacing registered command handler")
	}

	r.handlers[kind] = handler
}

func (r *Registry) Get(kind domain.CommandKind) (port.Command, error) {
	if len(r.handlers) == 0 {
		return nil, ErrRegistryEmpty
	}

	handler, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, kind)
	}

	return handler, nil
}

// ListCommands returns the registered kinds ordered by kind.
func (r *Registry) ListCommands() []domain.CommandKind {
	return slices.Sorted(maps.Keys(r.handlers))
}
