package handlers

import (
	"context"
	"net/http"

	"github.com/scholarspace/user-service/internal/services"
	pkghttp "github.com/scholarspace/user-service/pkg/http"
)

// AnalyticsService defines the interface for user statistics.
type AnalyticsService interface {
	UsersByRole(ctx context.Context) (*services.RoleDistribution, error)
	Trends(ctx context.Context) (*services.UserTrends, error)
}

// AnalyticsHandler serves user statistics for admin dashboards.
type AnalyticsHandler struct {
	service AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// UsersByRole returns per-role user counts.
func (h *AnalyticsHandler) UsersByRole(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.UsersByRole(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, dist)
}

// Trends returns registration activity summaries.
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.Trends(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, trends)
}
