package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/openclaw/lister/internal/attribute"
	"github.com/openclaw/lister/internal/config"
	"github.com/openclaw/lister/internal/coupang"
	"github.com/openclaw/lister/internal/log"
	"github.com/openclaw/lister/internal/registrar"
	"github.com/openclaw/lister/internal/relay"
	"github.com/openclaw/lister/internal/repository"
	"github.com/openclaw/lister/internal/storage/db"
	"github.com/openclaw/lister/internal/storage/mq"
	"github.com/openclaw/lister/internal/telemetry"
	"github.com/openclaw/lister/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running registrar application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log       config.Log
		Postgres  config.Postgres
		Relay     config.Relay
		Kafka     config.Kafka
		Otel      config.Otel
		Registrar config.Registrar
		Coupang   config.Coupang
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	listingRepository := repository.NewListingRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	registrarService := registrar.NewService(
		cfg.Registrar,
		logger,
		dbClient,
		listingRepository,
		outboxMsgRepository,
		coupang.NewClient(cfg.Coupang),
		attribute.NewReconciler(logger),
		coupang.NewPayloadBuilder(cfg.Coupang),
	)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Go(func() {
		cleanup := registrarService.Run(ctx)
		logger.InfoContext(ctx, "registrar service started")

		<-interruptChan

		logger.InfoContext(ctx, "registrar service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "registrar service is stopped")
	})

	wg.Wait()

	return nil
}
