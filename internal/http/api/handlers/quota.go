package handlers

import (
	"net/http"

	"github.com/feedforge/multimarket/internal/quota"
	"github.com/gin-gonic/gin"
)

// QuotaHandler exposes translation quota usage.
type QuotaHandler struct {
	manager *quota.Manager
}

// NewQuotaHandler constructs a QuotaHandler.
func NewQuotaHandler(manager *quota.Manager) *QuotaHandler {
	return &QuotaHandler{manager: manager}
}

// windowView extends the manager snapshot with remaining budgets.
type windowView struct {
	quota.WindowSnapshot
	RemainingChars    int64 `json:"remaining_chars"`
	RemainingRequests int64 `json:"remaining_requests"`
}

// Usage returns consumption, limits, and remaining budget per window.
func (h *QuotaHandler) Usage(c *gin.Context) {
	snapshots := h.manager.Snapshot(c.Request.Context())
	views := make([]windowView, 0, len(snapshots))
	for _, snap := range snapshots {
		view := windowView{WindowSnapshot: snap}
		if snap.CharLimit > 0 {
			view.RemainingChars = snap.CharLimit - snap.ConsumedChars
		}
		if snap.RequestLimit > 0 {
			view.RemainingRequests = snap.RequestLimit - snap.ConsumedRequests
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"windows": views})
}
