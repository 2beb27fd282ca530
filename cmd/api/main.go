package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoodsync/internal/api"
	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	// Wire feed, Hood client, history and events
	a, err := app.New(cfg, logger, app.Options{Trigger: "api"})
	if err != nil {
		logger.Fatal("Failed to initialize sync: %v", err)
	}
	defer a.Close()

	// Initialize API server
	server := api.New(cfg, logger, a)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
