package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hoodsync/internal/logger"
	"hoodsync/internal/models"
	"hoodsync/internal/store"
)

type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
	GetRun(ctx context.Context, id string) (*models.SyncRun, error)
}

type RunHandler struct {
	store  RunStore
	logger *logger.Logger
}

func NewRunHandler(store RunStore, logger *logger.Logger) *RunHandler {
	return &RunHandler{
		store:  store,
		logger: logger,
	}
}

func (h *RunHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		h.logger.Error("Failed to get run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": run})
}
