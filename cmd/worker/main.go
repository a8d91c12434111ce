package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/config"
	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/queue"
	"github.com/benvon/roda-da-vida/internal/workers"
)

const prefetch = 10

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	if cfg.RabbitMQURL == "" {
		zapLogger.Fatal("rabbitmq_url_not_configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Leads land in the same SQL database the server stores wheels in
	db, err := database.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	leadQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := leadQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq", zap.Int("prefetch", prefetch))

	msgs, errs, err := leadQueue.Consume(ctx, prefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	go func() {
		for err := range errs {
			zapLogger.Error("queue_error", zap.Error(err))
		}
	}()

	zapLogger.Info("worker_started")
	workers.NewLeadRecorder(database.NewLeadRepository(db), zapLogger).Run(ctx, msgs)
	zapLogger.Info("worker_stopped")
}
