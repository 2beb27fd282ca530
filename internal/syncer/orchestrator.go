// Package syncer runs the feed to Hood synchronisation: load the feed, look
// up existing listings, then normalize and dispatch one row at a time.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hoodsync/internal/catalog"
	"hoodsync/internal/config"
	"hoodsync/internal/events"
	"hoodsync/internal/feed"
	"hoodsync/internal/logger"
	"hoodsync/internal/models"
	"hoodsync/internal/observability"
	"hoodsync/internal/services/hood"
	"hoodsync/internal/syncerr"
)

var ErrRunInProgress = errors.New("a sync run is already in progress")

type FeedSource interface {
	Load(ctx context.Context) ([]feed.Row, error)
}

// Lookup answers whether a listing already exists on Hood.
type Lookup interface {
	ListItems(ctx context.Context) (map[string]string, error)
	ItemExists(ctx context.Context, articleID string) (bool, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, p *catalog.Product, action hood.Action) (*hood.Response, error)
}

// Recorder persists run history.
type Recorder interface {
	StartRun(ctx context.Context, run *models.SyncRun) error
	RecordIssue(ctx context.Context, issue *models.SyncIssue) error
	FinishRun(ctx context.Context, run *models.SyncRun) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Deps struct {
	Source     FeedSource
	Lookup     Lookup
	Dispatcher Dispatcher
	Recorder   Recorder
	Publisher  Publisher
	Metrics    *observability.Metrics
	Logger     *logger.Logger
}

type Options struct {
	LookupMode string
	DryRun     bool
	Trigger    string
}

// Result summarises a finished run.
type Result struct {
	RunID      string           `json:"run_id"`
	Rows       int              `json:"rows"`
	Stats      models.SyncStats `json:"stats"`
	DryRun     bool             `json:"dry_run"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Orchestrator processes rows strictly one after another. Row level errors
// are folded into the statistics; only feed failures abort a run.
type Orchestrator struct {
	deps    Deps
	opts    Options
	running atomic.Bool
}

func New(deps Deps, opts Options) *Orchestrator {
	if deps.Recorder == nil {
		deps.Recorder = NopRecorder{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if opts.LookupMode == "" {
		opts.LookupMode = config.LookupBulk
	}
	if opts.Trigger == "" {
		opts.Trigger = "manual"
	}
	return &Orchestrator{deps: deps, opts: opts}
}

// Run performs one full sync. Only one run per orchestrator executes at a
// time; a concurrent call returns ErrRunInProgress.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer o.running.Store(false)

	run := &models.SyncRun{
		ID:         uuid.New().String(),
		Trigger:    o.opts.Trigger,
		Status:     models.SyncRunStatusRunning,
		DryRun:     o.opts.DryRun,
		LookupMode: o.opts.LookupMode,
		StartedAt:  time.Now().UTC(),
	}
	log := o.deps.Logger.With("run_id", run.ID)

	if err := o.deps.Recorder.StartRun(ctx, run); err != nil {
		log.Warn("Failed to record run start: %v", err)
	}
	o.publish(ctx, log, events.Event{Type: events.TypeSyncStarted, RunID: run.ID})
	log.Info("Sync started (trigger=%s lookup=%s dry_run=%t)", run.Trigger, run.LookupMode, run.DryRun)

	rows, err := o.deps.Source.Load(ctx)
	if err != nil {
		return nil, o.fail(ctx, log, run, err)
	}
	run.RowCount = len(rows)

	listing := o.loadListing(ctx, log)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, o.fail(ctx, log, run, fmt.Errorf("sync interrupted after %d of %d rows: %w", i, len(rows), err))
		}

		result := o.processRow(ctx, log, row, listing)
		run.Stats = Fold(run.Stats, result)
		o.deps.Metrics.ObserveRow(result.Outcome.String())
		o.report(ctx, log, run.ID, result)
	}

	finished := time.Now().UTC()
	run.Status = models.SyncRunStatusCompleted
	run.FinishedAt = &finished
	if err := o.deps.Recorder.FinishRun(ctx, run); err != nil {
		log.Warn("Failed to record run completion: %v", err)
	}
	stats := run.Stats
	o.publish(ctx, log, events.Event{Type: events.TypeSyncCompleted, RunID: run.ID, Stats: &stats})
	o.deps.Metrics.ObserveRun(string(run.Status), finished.Sub(run.StartedAt))

	log.Info("Sync completed: inserted=%d updated=%d skipped=%d errors=%d",
		stats.Inserted, stats.Updated, stats.Skipped, stats.Errors)

	return &Result{
		RunID:      run.ID,
		Rows:       run.RowCount,
		Stats:      stats,
		DryRun:     run.DryRun,
		StartedAt:  run.StartedAt,
		FinishedAt: finished,
	}, nil
}

// loadListing fetches the existing listings in bulk mode. A failed fetch
// degrades to an empty set, so every row is treated as an insert.
func (o *Orchestrator) loadListing(ctx context.Context, log *logger.Logger) map[string]string {
	if o.opts.LookupMode != config.LookupBulk {
		return nil
	}
	listing, err := o.deps.Lookup.ListItems(ctx)
	if err != nil {
		log.Warn("Listing lookup failed, treating every row as new: %v", err)
		return map[string]string{}
	}
	log.Info("Found %d existing Hood listings", len(listing))
	return listing
}

func (o *Orchestrator) processRow(ctx context.Context, log *logger.Logger, row feed.Row, listing map[string]string) RowResult {
	product, err := catalog.Normalize(row)
	if err != nil {
		articleID := catalog.Clean(row.First("mpnr", "aid"))
		log.Warn("Skipping line %d (%s): %v", row.Line, articleID, err)
		return RowResult{Line: row.Line, ArticleID: articleID, Outcome: OutcomeSkipped, Err: err}
	}

	action := hood.ActionInsert
	if o.exists(ctx, log, product.ArticleID, listing) {
		action = hood.ActionUpdate
	}

	result := RowResult{Line: row.Line, ArticleID: product.ArticleID, Action: action}
	if _, err := o.deps.Dispatcher.Dispatch(ctx, product, action); err != nil {
		log.Error("Failed to %s article %s: %v", action, product.ArticleID, err)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	if action == hood.ActionUpdate {
		result.Outcome = OutcomeUpdated
	} else {
		result.Outcome = OutcomeInserted
		if listing != nil {
			// a repeated id later in the feed becomes an update
			listing[product.ArticleID] = product.Name
		}
	}
	log.Debug("Article %s %s", product.ArticleID, result.Outcome)
	return result
}

func (o *Orchestrator) exists(ctx context.Context, log *logger.Logger, articleID string, listing map[string]string) bool {
	if o.opts.LookupMode == config.LookupItem {
		exists, err := o.deps.Lookup.ItemExists(ctx, articleID)
		if err != nil {
			log.Warn("Existence check for %s failed, inserting: %v", articleID, err)
			return false
		}
		return exists
	}
	_, ok := listing[articleID]
	return ok
}

// report records issues and emits the per-row event.
func (o *Orchestrator) report(ctx context.Context, log *logger.Logger, runID string, r RowResult) {
	event := events.Event{RunID: runID, ArticleID: r.ArticleID, Line: r.Line, Action: string(r.Action)}

	switch r.Outcome {
	case OutcomeInserted, OutcomeUpdated:
		event.Type = events.TypeItemSynced
	case OutcomeSkipped, OutcomeFailed:
		event.Type = events.TypeItemSkipped
		if r.Outcome == OutcomeFailed {
			event.Type = events.TypeItemFailed
		}
		event.Error = r.Err.Error()

		issue := newIssue(runID, r)
		if err := o.deps.Recorder.RecordIssue(ctx, issue); err != nil {
			log.Warn("Failed to record issue for line %d: %v", r.Line, err)
		}
	}

	o.publish(ctx, log, event)
}

func (o *Orchestrator) fail(ctx context.Context, log *logger.Logger, run *models.SyncRun, cause error) error {
	finished := time.Now().UTC()
	msg := cause.Error()
	run.Status = models.SyncRunStatusFailed
	run.Error = &msg
	run.FinishedAt = &finished

	// the caller's context may already be cancelled
	bg := context.WithoutCancel(ctx)
	if err := o.deps.Recorder.FinishRun(bg, run); err != nil {
		log.Warn("Failed to record run failure: %v", err)
	}
	stats := run.Stats
	o.publish(bg, log, events.Event{Type: events.TypeSyncCompleted, RunID: run.ID, Stats: &stats, Error: msg})
	o.deps.Metrics.ObserveRun(string(run.Status), finished.Sub(run.StartedAt))

	log.Error("Sync failed: %v", cause)
	return cause
}

func (o *Orchestrator) publish(ctx context.Context, log *logger.Logger, event events.Event) {
	if err := o.deps.Publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish %s event: %v", event.Type, err)
	}
}

func newIssue(runID string, r RowResult) *models.SyncIssue {
	issue := &models.SyncIssue{
		RunID:       runID,
		Line:        r.Line,
		ArticleID:   r.ArticleID,
		Action:      string(r.Action),
		Code:        models.IssueCodeInternal,
		Severity:    models.IssueSeverityHigh,
		Explanation: r.Err.Error(),
	}
	switch {
	case syncerr.IsValidation(r.Err):
		issue.Code = models.IssueCodeValidation
		issue.Severity = models.IssueSeverityMedium
	case syncerr.IsRemote(r.Err):
		issue.Code = models.IssueCodeRemote
	}
	return issue
}

// NopRecorder keeps no history.
type NopRecorder struct{}

func (NopRecorder) StartRun(context.Context, *models.SyncRun) error      { return nil }
func (NopRecorder) RecordIssue(context.Context, *models.SyncIssue) error { return nil }
func (NopRecorder) FinishRun(context.Context, *models.SyncRun) error     { return nil }
