package handlers

import (
	"net/http"
	"time"

	"github.com/feedforge/multimarket/internal/models"
	"github.com/feedforge/multimarket/internal/pipeline"
	"github.com/feedforge/multimarket/internal/store"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// TransformHandler runs the transformation pipeline over submitted
// products.
type TransformHandler struct {
	pipeline *pipeline.Pipeline
	runs     *store.GormRunStore
}

// NewTransformHandler constructs a TransformHandler.
func NewTransformHandler(p *pipeline.Pipeline, runs *store.GormRunStore) *TransformHandler {
	return &TransformHandler{pipeline: p, runs: runs}
}

type transformRequest struct {
	Platforms []string                 `json:"platforms" binding:"required"`
	Products  []pipeline.ProductRecord `json:"products" binding:"required"`
}

// Transform executes one pipeline run and returns records, summary, and
// diagnostics. The run summary is persisted so past runs stay listable;
// a persistence failure degrades to a log entry, never a request error.
func (h *TransformHandler) Transform(c *gin.Context) {
	var req transformRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Platforms) == 0 || len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platforms and products are required"})
		return
	}

	summary, records, errRun := h.pipeline.Run(c.Request.Context(), req.Products, req.Platforms)
	if summary == nil && errRun != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRun.Error()})
		return
	}

	if h.runs != nil && summary != nil {
		succeeded, skipped := 0, 0
		for _, counts := range summary.PerPlatform {
			succeeded += counts.Succeeded
			skipped += counts.Skipped
		}
		row := models.TransformRun{
			ID:         summary.RunID,
			StartedAt:  summary.StartedAt,
			FinishedAt: summary.FinishedAt,
			Products:   summary.Products,
			Platforms:  summary.Platforms,
			Succeeded:  succeeded,
			Skipped:    skipped,
			CreatedAt:  time.Now().UTC(),
		}
		if errSave := h.runs.SaveRun(c.Request.Context(), row, summary.Diagnostics); errSave != nil {
			log.WithError(errSave).Warn("transform: failed to persist run summary")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"records": records,
	})
}
