package middleware

import (
	"context"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/outbox"
	"loftcal/internal/domain/shared/events"
)

// OutboxFlush collects the events a command raises and writes them to box
// after the handler returned without error. Place it inside Transaction so the
// records share the command's unit of work.
func OutboxFlush(box outbox.Outbox, encoder outbox.EventEncoder) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			batch := &events.Batch{}
			res, err := next.Dispatch(outbox.ContextWithBatch(ctx, batch), cmd)
			if err != nil {
				return nil, err
			}
			if err := outbox.RecordDomainEvents(ctx, box, encoder, batch.Drain()); err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
