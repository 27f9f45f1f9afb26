package memory

import (
	"context"
	"errors"

	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

// Factory hands out units over shared in-memory repositories. Units provide no
// isolation; commit and rollback are no-ops.
type Factory struct {
	Properties   *PropertyRepository
	Reservations *ReservationRepository
	Overrides    *OverrideRepository
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

func NewFactory() Factory {
	return Factory{
		Properties:   NewPropertyRepository(),
		Reservations: NewReservationRepository(),
		Overrides:    NewOverrideRepository(),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Properties == nil || f.Reservations == nil || f.Overrides == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

type Unit struct {
	factory Factory
}

func (u *Unit) Properties() domain.PropertyRepository      { return u.factory.Properties }
func (u *Unit) Reservations() domain.ReservationRepository { return u.factory.Reservations }
func (u *Unit) Overrides() domain.OverrideRepository       { return u.factory.Overrides }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }
