package middleware

import (
	"context"
	"errors"
	"strings"

	"loftcal/internal/app/commands"
)

var ErrActorRequired = errors.New("middleware: acting operator required")

// AttributedCommand is implemented by commands that record who performed them.
type AttributedCommand interface {
	commands.Command
	ActorID() string
}

// RequireActor rejects attributed commands that carry no actor. Identity itself
// is established upstream; this only guarantees audit events name someone.
func RequireActor() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if attributed, ok := cmd.(AttributedCommand); ok && strings.TrimSpace(attributed.ActorID()) == "" {
				return nil, ErrActorRequired
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}
