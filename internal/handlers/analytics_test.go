package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarspace/user-service/internal/models"
	"github.com/scholarspace/user-service/internal/services"
)

func TestAnalyticsHandler_UsersByRole(t *testing.T) {
	svc := &MockAnalyticsService{
		UsersByRoleFunc: func(ctx context.Context) (*services.RoleDistribution, error) {
			return &services.RoleDistribution{Admin: 2, Instructor: 15, Student: 340}, nil
		},
	}
	h := NewAnalyticsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/users/by-role", nil)
	rec := httptest.NewRecorder()
	h.UsersByRole(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp["ADMIN"])
	assert.Equal(t, int64(15), resp["INSTRUCTOR"])
	assert.Equal(t, int64(340), resp["STUDENT"])
}

func TestAnalyticsHandler_Trends(t *testing.T) {
	svc := &MockAnalyticsService{
		TrendsFunc: func(ctx context.Context) (*services.UserTrends, error) {
			return &services.UserTrends{
				TotalUsers:           357,
				ActiveUsers:          350,
				RecentUsers:          12,
				MonthlyRegistrations: map[string]int64{"2026-08": 12},
			}, nil
		},
	}
	h := NewAnalyticsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/users/trends", nil)
	rec := httptest.NewRecorder()
	h.Trends(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp services.UserTrends
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(357), resp.TotalUsers)
}

func TestAnalyticsHandler_RepositoryFailure(t *testing.T) {
	svc := &MockAnalyticsService{
		TrendsFunc: func(ctx context.Context) (*services.UserTrends, error) {
			return nil, models.ErrInternalServer
		},
	}
	h := NewAnalyticsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/users/trends", nil)
	rec := httptest.NewRecorder()
	h.Trends(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
