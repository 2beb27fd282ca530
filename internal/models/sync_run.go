package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRun is one execution of the feed to Hood sync.
type SyncRun struct {
	ID         string        `json:"id" gorm:"type:varchar(36);primary_key"`
	Trigger    string        `json:"trigger" gorm:"not null"`
	Status     SyncRunStatus `json:"status" gorm:"not null;index"`
	DryRun     bool          `json:"dry_run" gorm:"default:false"`
	LookupMode string        `json:"lookup_mode"`
	RowCount   int           `json:"rows"`
	Stats      SyncStats     `json:"stats" gorm:"embedded"`
	Error      *string       `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Issues []SyncIssue `json:"issues,omitempty" gorm:"foreignKey:RunID"`
}

// SyncStats are the per-outcome row counters of a run.
type SyncStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// Total is the number of rows that reached a terminal state.
func (s SyncStats) Total() int {
	return s.Inserted + s.Updated + s.Skipped + s.Errors
}

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusCompleted SyncRunStatus = "COMPLETED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
)

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
