package api

import (
	"advokit/case-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the dashboard service dependency.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute dashboard stats")
		return
	}
	respondData(c, http.StatusOK, stats)
}

// UpcomingHearings handles GET /dashboard/hearings.
func (h *DashboardHandler) UpcomingHearings(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	cases, err := h.dashboardService.UpcomingHearings(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch upcoming hearings")
		return
	}
	respondData(c, http.StatusOK, cases)
}

// RecentActivity handles GET /dashboard/activity.
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	items, err := h.dashboardService.RecentActivity(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch recent activity")
		return
	}
	respondData(c, http.StatusOK, items)
}

// Metrics handles GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	metrics, err := h.dashboardService.Metrics(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute monthly metrics")
		return
	}
	respondData(c, http.StatusOK, metrics)
}
