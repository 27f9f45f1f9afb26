package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"loftcal/internal/app/commands"
	availabilityapp "loftcal/internal/app/handlers/availability"
	overridesapp "loftcal/internal/app/handlers/overrides"
	reservationsapp "loftcal/internal/app/handlers/reservations"
	"loftcal/internal/app/middleware"
	appoutbox "loftcal/internal/app/outbox"
	"loftcal/internal/app/policies"
	"loftcal/internal/app/queries"
	"loftcal/internal/infra/broker/kafka"
	"loftcal/internal/infra/config"
	"loftcal/internal/infra/fixtures"
	ginserver "loftcal/internal/infra/http/gin"
	"loftcal/internal/infra/i18n"
	"loftcal/internal/infra/obs"
	infraoutbox "loftcal/internal/infra/outbox"
	"loftcal/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("loftcal stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("loftcal stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.Warn("storage close failed", "error", err)
		}
	}()

	if cfg.FixturesPath != "" {
		counts, err := fixtures.Load(ctx, store.factory, cfg.FixturesPath, logger)
		if err != nil {
			return err
		}
		logger.Info("fixtures loaded", "path", cfg.FixturesPath, "lofts", counts.Lofts, "reservations", counts.Reservations, "overrides", counts.Overrides)
	}

	metrics := obs.NewMetrics()
	catalog, err := i18n.New()
	if err != nil {
		return err
	}
	encoder := appoutbox.JSONEventEncoder{}

	renderer := &availabilityapp.Renderer{
		UoWFactory:    store.factory,
		Translate:     catalog.Translate,
		DefaultLocale: cfg.DefaultLocale,
		Location:      cfg.CalendarLocation,
		MaxWindowDays: cfg.MaxWindowDays,
		Observer:      metrics,
		Outbox:        store.outbox,
		Encoder:       encoder,
		Logger:        logger,

		IntegrityQuiet: cfg.IntegrityQuiet,
	}

	var exports policies.ObjectStore
	if cfg.S3Enabled() {
		client, err := s3.NewClient(s3.Options{
			Endpoint:  cfg.S3Endpoint,
			UseSSL:    cfg.S3UseSSL,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			LinkTTL:   cfg.S3LinkTTL,
		}, logger)
		if err != nil {
			return err
		}
		exports = client
	} else {
		logger.Info("S3 not configured, exports disabled")
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetAvailabilityQuery{}.Key(), &availabilityapp.GetAvailabilityHandler{Renderer: renderer})
	queries.RegisterHandler(queryBus, availabilityapp.GetLoftCalendarQuery{}.Key(), &availabilityapp.GetLoftCalendarHandler{Renderer: renderer})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.ExportAvailabilityCommand{}.Key(), &availabilityapp.ExportAvailabilityHandler{Renderer: renderer, Store: exports})
	commands.RegisterHandler(commandBus, overridesapp.SetOverrideCommand{}.Key(), &overridesapp.SetOverrideHandler{})
	commands.RegisterHandler(commandBus, overridesapp.ClearOverrideCommand{}.Key(), &overridesapp.ClearOverrideHandler{})
	commands.RegisterHandler(commandBus, reservationsapp.ProjectBookingCommand{}.Key(), &reservationsapp.ProjectBookingHandler{})
	logger.Debug("buses ready", "commands", commandBus.Keys())

	commandsWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.RequireActor(),
		middleware.Idempotency(store.idempotency, cfg.IdempotencyTTL),
		middleware.Transaction(store.factory, nil),
		middleware.OutboxFlush(store.outbox, encoder),
	)
	queriesWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryLogging(logger))

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{
		Checks: map[string]func(context.Context) error{"storage": store.ready},
	}, ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: queriesWithMiddleware, Commands: commandsWithMiddleware, Logger: logger},
		Overrides:    ginserver.OverrideHandler{Commands: commandsWithMiddleware, Logger: logger},
		Metrics:      metrics.Handler(),
	})

	g, gctx := errgroup.WithContext(ctx)
	if cfg.KafkaEnabled() {
		if err := startBroker(gctx, g, cfg, store, commandsWithMiddleware, logger); err != nil {
			return err
		}
	} else {
		logger.Info("kafka not configured, outbox relay and booking consumer disabled")
	}

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func startBroker(ctx context.Context, g *errgroup.Group, cfg config.Config, store storage, bus commands.Bus, logger *slog.Logger) error {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return err
	}
	worker := &infraoutbox.Worker{
		Queue:       store.queue,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}
	g.Go(func() error {
		defer producer.Close()
		return worker.Run(ctx)
	})

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, kafka.BookingEvents{
		Commands: bus,
		Inbox:    store.inbox,
		Logger:   logger,
	}, logger)
	if err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		return consumer.Close()
	})
	g.Go(func() error {
		logger.Info("booking consumer starting", "topic", cfg.BookingEventsTopic, "group", cfg.KafkaGroupID)
		return consumer.Run(ctx, []string{cfg.BookingEventsTopic})
	})
	return nil
}
