package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory starts a session per unit. Write units run inside a transaction;
// read-only units read a snapshot.
type Factory struct {
	DB *mongo.Database

	Properties   *PropertyRepository
	Reservations *ReservationRepository
	Overrides    *OverrideRepository
}

func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:           db,
		Properties:   NewPropertyRepository(db),
		Reservations: NewReservationRepository(db),
		Overrides:    NewOverrideRepository(db),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Snapshot())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{session: session, factory: f}, nil
}

type Unit struct {
	session mongo.Session
	factory Factory
}

func (u *Unit) Properties() domain.PropertyRepository      { return u.factory.Properties }
func (u *Unit) Reservations() domain.ReservationRepository { return u.factory.Reservations }
func (u *Unit) Overrides() domain.OverrideRepository       { return u.factory.Overrides }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext binds the session so repository calls join the transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.ContextInjector = (*Unit)(nil)
