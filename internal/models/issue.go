package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncIssue records a feed row that was skipped or failed during a run.
type SyncIssue struct {
	ID          string        `json:"id" gorm:"type:varchar(36);primary_key"`
	RunID       string        `json:"run_id" gorm:"not null;index"`
	Line        int           `json:"line"`
	ArticleID   string        `json:"article_id"`
	Action      string        `json:"action,omitempty"`
	Code        IssueCode     `json:"code" gorm:"not null"`
	Severity    IssueSeverity `json:"severity" gorm:"not null"`
	Explanation string        `json:"explanation" gorm:"not null"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type IssueCode string

const (
	IssueCodeValidation IssueCode = "VALIDATION"
	IssueCodeRemote     IssueCode = "REMOTE_API"
	IssueCodeInternal   IssueCode = "INTERNAL"
)

type IssueSeverity string

const (
	IssueSeverityLow    IssueSeverity = "LOW"
	IssueSeverityMedium IssueSeverity = "MEDIUM"
	IssueSeverityHigh   IssueSeverity = "HIGH"
)

func (i *SyncIssue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
