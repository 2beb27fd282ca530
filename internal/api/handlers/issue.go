package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hoodsync/internal/logger"
	"hoodsync/internal/models"
)

type IssueHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewIssueHandler(db *gorm.DB, logger *logger.Logger) *IssueHandler {
	return &IssueHandler{
		db:     db,
		logger: logger,
	}
}

// List returns recorded row issues, newest first, filtered by run, code or
// severity.
func (h *IssueHandler) List(c *gin.Context) {
	var issues []models.SyncIssue

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := h.db.WithContext(c.Request.Context()).Model(&models.SyncIssue{})

	if runID := c.Query("run_id"); runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if code := c.Query("code"); code != "" {
		query = query.Where("code = ?", code)
	}
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if articleID := c.Query("article_id"); articleID != "" {
		query = query.Where("article_id = ?", articleID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("Failed to count issues: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&issues).Error; err != nil {
		h.logger.Error("Failed to fetch issues: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": issues,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
