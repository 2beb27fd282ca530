package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
)

type summary struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Stats     interface{} `json:"stats,omitempty"`
	RunID     string      `json:"run_id,omitempty"`
	DryRun    bool        `json:"dry_run,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func main() {
	dryRun := flag.Bool("dry-run", false, "build and log requests without sending them")
	maxRows := flag.Int("max-rows", 0, "process only the first N feed rows (overrides FEED_MAX_ROWS)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Logs go to stderr so stdout carries only the JSON summary.
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, logger, app.Options{Trigger: "cli", DryRun: *dryRun, MaxRows: *maxRows}))
}

func run(ctx context.Context, cfg *config.Config, logger *logger.Logger, opts app.Options) int {
	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	a, err := app.New(cfg, logger, opts)
	if err != nil {
		out.Encode(summary{Error: err.Error(), Timestamp: time.Now().UTC()})
		return 1
	}
	defer a.Close()

	res, err := a.Orchestrator.Run(ctx)
	if err != nil {
		out.Encode(summary{Error: err.Error(), Timestamp: time.Now().UTC()})
		return 1
	}

	out.Encode(summary{
		Success:   true,
		Message:   "Hood-Sync erfolgreich ausgeführt",
		Stats:     res.Stats,
		RunID:     res.RunID,
		DryRun:    res.DryRun,
		Timestamp: res.FinishedAt,
	})
	return 0
}
