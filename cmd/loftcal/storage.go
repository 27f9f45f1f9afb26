package main

import (
	"context"
	"fmt"
	"log/slog"

	"loftcal/internal/app/middleware"
	appoutbox "loftcal/internal/app/outbox"
	"loftcal/internal/app/uow"
	"loftcal/internal/infra/broker/kafka"
	"loftcal/internal/infra/config"
	mongodb "loftcal/internal/infra/db/mongo"
	"loftcal/internal/infra/inbox"
	infraoutbox "loftcal/internal/infra/outbox"
	"loftcal/internal/infra/storage/memory"
)

// storage bundles everything the chosen driver provides.
type storage struct {
	factory     uow.UoWFactory
	outbox      appoutbox.Outbox
	queue       infraoutbox.Queue
	idempotency middleware.IdempotencyStore
	inbox       kafka.Inbox
	ready       func(ctx context.Context) error
	close       func(ctx context.Context) error
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	if cfg.StorageDriver == config.StorageMongo {
		return openMongo(ctx, cfg, logger)
	}
	box := memory.NewOutbox()
	logger.Info("using in-memory storage")
	return storage{
		factory:     memory.NewFactory(),
		outbox:      box,
		queue:       box,
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		inbox:       memory.NewInbox(),
		ready:       func(context.Context) error { return nil },
		close:       func(context.Context) error { return nil },
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return storage{}, fmt.Errorf("ping mongo: %w", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		return storage{}, fmt.Errorf("mongo indexes: %w", err)
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return storage{}, fmt.Errorf("outbox store: %w", err)
	}
	idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return storage{}, fmt.Errorf("idempotency store: %w", err)
	}
	in, err := inbox.NewStore(ctx, client.DB, cfg.KafkaGroupID)
	if err != nil {
		return storage{}, fmt.Errorf("inbox store: %w", err)
	}
	logger.Info("using mongo storage", "database", cfg.MongoDB)
	return storage{
		factory:     mongodb.NewFactory(client.DB),
		outbox:      box,
		queue:       box,
		idempotency: idem,
		inbox:       in,
		ready:       client.Ping,
		close:       client.Close,
	}, nil
}
