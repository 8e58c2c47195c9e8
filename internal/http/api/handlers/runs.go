package handlers

import (
	"net/http"

	"github.com/feedforge/multimarket/internal/store"
	"github.com/gin-gonic/gin"
)

// RunHandler lists past pipeline runs.
type RunHandler struct {
	runs *store.GormRunStore
}

// NewRunHandler constructs a RunHandler.
func NewRunHandler(runs *store.GormRunStore) *RunHandler {
	return &RunHandler{runs: runs}
}

// runListQuery defines filters for the run list view.
type runListQuery struct {
	Page  int    `form:"page,default=1"`   // Page number.
	Limit int    `form:"limit,default=20"` // Page size.
	ID    string `form:"id"`               // Run ID filter.
}

// List returns persisted run summaries newest first.
func (h *RunHandler) List(c *gin.Context) {
	var q runListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	rows, total, errList := h.runs.ListRuns(c.Request.Context(), q.Page, q.Limit, q.ID)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"runs":  rows,
	})
}
