package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
	"hoodsync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if cfg.KafkaBrokers == "" {
		logger.Fatal("KAFKA_BROKERS must be set for the worker")
	}

	a, err := app.New(cfg, logger, app.Options{Trigger: "queue"})
	if err != nil {
		logger.Fatal("Failed to initialize sync: %v", err)
	}
	defer a.Close()

	// Initialize worker
	w := worker.New(cfg, logger, a.Orchestrator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start worker
	logger.Info("Starting worker on topic %s...", cfg.KafkaRequestTopic)
	w.Start(ctx)

	logger.Info("Shutting down worker...")
	w.Stop()
}
