package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hoodsync/internal/logger"
	"hoodsync/internal/models"
	"hoodsync/internal/syncer"
)

const successMessage = "Hood-Sync erfolgreich ausgeführt"

type Runner interface {
	Run(ctx context.Context) (*syncer.Result, error)
}

// SyncResponse is the invocation body: success with message and stats, or
// failure with error.
type SyncResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Stats     *models.SyncStats `json:"stats,omitempty"`
	RunID     string            `json:"run_id,omitempty"`
	DryRun    bool              `json:"dry_run,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type SyncHandler struct {
	runner Runner
	logger *logger.Logger
}

func NewSyncHandler(runner Runner, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		runner: runner,
		logger: logger,
	}
}

// Trigger runs one sync and answers 200 with the statistics, 409 when a run
// is already active and 500 on any other failure.
func (h *SyncHandler) Trigger(c *gin.Context) {
	res, err := h.runner.Run(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, syncer.ErrRunInProgress) {
			status = http.StatusConflict
		}
		h.logger.Error("Sync request failed: %v", err)
		c.JSON(status, SyncResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	stats := res.Stats
	c.JSON(http.StatusOK, SyncResponse{
		Success:   true,
		Message:   successMessage,
		Stats:     &stats,
		RunID:     res.RunID,
		DryRun:    res.DryRun,
		Timestamp: res.FinishedAt,
	})
}

// Fail answers with the failure body. Used when the runner cannot be built.
func Fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, SyncResponse{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	})
}
