// Package app wires configuration into a ready to run sync orchestrator.
package app

import (
	"net/http"

	"hoodsync/internal/config"
	"hoodsync/internal/database"
	"hoodsync/internal/events"
	"hoodsync/internal/feed"
	"hoodsync/internal/logger"
	"hoodsync/internal/observability"
	"hoodsync/internal/services/hood"
	"hoodsync/internal/store"
	"hoodsync/internal/syncer"
)

type Options struct {
	Trigger string
	DryRun  bool
	// MaxRows overrides FEED_MAX_ROWS when positive.
	MaxRows int
}

// App owns the long lived pieces of a sync deployment.
type App struct {
	Config       *config.Config
	Logger       *logger.Logger
	Metrics      *observability.Metrics
	Orchestrator *syncer.Orchestrator
	// Store is nil when DATABASE_URL is unset.
	Store *store.Store

	db        *database.Database
	publisher *events.Publisher
}

func New(cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("Configuration: %v", cfg.Redacted())
	if cfg.TestMode() {
		log.Info("Feed source: TEST_CSV override")
	}

	a := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: observability.NewMetrics(),
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	maxRows := cfg.FeedMaxRows
	if opts.MaxRows > 0 {
		maxRows = opts.MaxRows
	}
	loader := feed.NewLoader(feed.Options{
		URL:       cfg.FeedURL,
		TestCSV:   cfg.TestCSV,
		Delimiter: cfg.FeedDelimiter,
		MaxRows:   maxRows,
		TrimSpace: true,
	}, httpClient, log)

	client := hood.NewClient(hood.ClientConfig{
		Endpoint:    cfg.Endpoint,
		APIVersion:  cfg.APIVersion,
		Credentials: hood.NewCredentials(cfg.AccountName, cfg.Password, cfg.PasswordHash),
		HTTPClient:  httpClient,
		Metrics:     a.Metrics,
	}, log)

	deps := syncer.Deps{
		Source:     loader,
		Lookup:     client,
		Dispatcher: client,
		Metrics:    a.Metrics,
		Logger:     log,
	}
	if opts.DryRun {
		deps.Dispatcher = syncer.NewDryRunDispatcher(client.Transformer(), log)
	}

	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL, cfg.LogLevel == "debug")
		if err != nil {
			return nil, err
		}
		a.db = db
		a.Store = store.New(db)
		deps.Recorder = a.Store
		log.Info("Run history enabled")
	}

	if cfg.KafkaBrokers != "" {
		a.publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		deps.Publisher = a.publisher
		log.Info("Publishing sync events to %s", cfg.KafkaTopic)
	}

	a.Orchestrator = syncer.New(deps, syncer.Options{
		LookupMode: cfg.LookupMode,
		DryRun:     opts.DryRun,
		Trigger:    opts.Trigger,
	})
	return a, nil
}

func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Logger.Warn("Failed to close event publisher: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("Failed to close database: %v", err)
		}
	}
}
