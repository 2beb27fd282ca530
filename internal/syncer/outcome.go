package syncer

import (
	"hoodsync/internal/models"
	"hoodsync/internal/services/hood"
)

// Outcome is the terminal state of one feed row.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeInserted
	OutcomeUpdated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// RowResult is what processing one row produced.
type RowResult struct {
	Line      int
	ArticleID string
	Action    hood.Action
	Outcome   Outcome
	Err       error
}

// Fold adds one row result to the running statistics.
func Fold(stats models.SyncStats, r RowResult) models.SyncStats {
	switch r.Outcome {
	case OutcomeInserted:
		stats.Inserted++
	case OutcomeUpdated:
		stats.Updated++
	case OutcomeFailed:
		stats.Errors++
	default:
		stats.Skipped++
	}
	return stats
}
