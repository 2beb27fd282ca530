package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hoodsync/internal/database"
	"hoodsync/internal/models"
)

var ErrNotFound = errors.New("run not found")

// Store persists run history through gorm.
type Store struct {
	db *gorm.DB
}

func New(db *database.Database) *Store {
	return &Store{db: db.DB}
}

func (s *Store) StartRun(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (s *Store) RecordIssue(ctx context.Context, issue *models.SyncIssue) error {
	if err := s.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("failed to record issue: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, run *models.SyncRun) error {
	err := s.db.WithContext(ctx).Model(&models.SyncRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
		"status":      run.Status,
		"row_count":   run.RowCount,
		"inserted":    run.Stats.Inserted,
		"updated":     run.Stats.Updated,
		"skipped":     run.Stats.Skipped,
		"errors":      run.Stats.Errors,
		"error":       run.Error,
		"finished_at": run.FinishedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.SyncRun
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a run with its issues.
func (s *Store) GetRun(ctx context.Context, id string) (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.db.WithContext(ctx).
		Preload("Issues", func(db *gorm.DB) *gorm.DB { return db.Order("line ASC") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// DB exposes the gorm handle for ad hoc queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}
