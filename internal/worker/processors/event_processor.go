package processors

import (
	"context"
	"errors"
	"fmt"

	"hoodsync/internal/logger"
	"hoodsync/internal/syncer"
)

const TypeSyncRequested = "sync.requested"

type Runner interface {
	Run(ctx context.Context) (*syncer.Result, error)
}

// EventProcessor turns sync requests from the queue into sync runs.
type EventProcessor struct {
	runner Runner
	logger *logger.Logger
}

func NewEventProcessor(runner Runner, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		runner: runner,
		logger: logger,
	}
}

// Process runs one sync for a sync.requested event. Other event types are
// ignored. A request arriving while a run is active is dropped, since the
// active run already covers the current feed.
func (ep *EventProcessor) Process(ctx context.Context, eventType, requestedBy string) error {
	if eventType != "" && eventType != TypeSyncRequested {
		ep.logger.Debug("Ignoring event type %s", eventType)
		return nil
	}

	ep.logger.Info("Sync requested by %s", requestedBy)
	res, err := ep.runner.Run(ctx)
	if errors.Is(err, syncer.ErrRunInProgress) {
		ep.logger.Warn("Dropping sync request from %s: %v", requestedBy, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync run failed: %w", err)
	}

	ep.logger.Info("Sync run %s finished: inserted=%d updated=%d skipped=%d errors=%d",
		res.RunID, res.Stats.Inserted, res.Stats.Updated, res.Stats.Skipped, res.Stats.Errors)
	return nil
}
