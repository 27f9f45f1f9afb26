package uow

import (
	"context"

	"loftcal/internal/domain/availability"
)

// UnitOfWork groups the loft, reservation and override repositories behind one
// transaction boundary.
type UnitOfWork interface {
	Properties() availability.PropertyRepository
	Reservations() availability.ReservationRepository
	Overrides() availability.OverrideRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}

// ContextInjector is implemented by units that carry driver state (a Mongo
// session for instance) which repositories read from the context.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

// Bind prepares ctx for work executed inside unit.
func Bind(ctx context.Context, unit UnitOfWork) context.Context {
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(ctx, unit)
}
