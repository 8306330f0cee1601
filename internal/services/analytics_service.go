package services

import (
	"context"
	"log/slog"

	"github.com/scholarspace/user-service/internal/models"
)

// AnalyticsRepository exposes the aggregate queries the analytics surface
// needs.
type AnalyticsRepository interface {
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
	Counts(ctx context.Context) (total, active, recent int64, err error)
	MonthlyRegistrations(ctx context.Context) (map[string]int64, error)
}

// AnalyticsService computes user statistics for dashboards.
type AnalyticsService struct {
	repo   AnalyticsRepository
	logger *slog.Logger
}

func NewAnalyticsService(repo AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// RoleDistribution is the per-role user count payload.
type RoleDistribution struct {
	Admin      int64 `json:"ADMIN"`
	Instructor int64 `json:"INSTRUCTOR"`
	Student    int64 `json:"STUDENT"`
}

func (s *AnalyticsService) UsersByRole(ctx context.Context) (*RoleDistribution, error) {
	counts, err := s.repo.CountByRole(ctx)
	if err != nil {
		s.logger.Error("failed to count users by role", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &RoleDistribution{
		Admin:      counts[models.RoleAdmin],
		Instructor: counts[models.RoleInstructor],
		Student:    counts[models.RoleStudent],
	}, nil
}

// UserTrends summarizes registration activity.
type UserTrends struct {
	TotalUsers           int64            `json:"totalUsers"`
	ActiveUsers          int64            `json:"activeUsers"`
	RecentUsers          int64            `json:"recentUsers"`
	MonthlyRegistrations map[string]int64 `json:"monthlyRegistrations"`
}

func (s *AnalyticsService) Trends(ctx context.Context) (*UserTrends, error) {
	total, active, recent, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Error("failed to compute user counts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	monthly, err := s.repo.MonthlyRegistrations(ctx)
	if err != nil {
		s.logger.Error("failed to compute registration trends", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &UserTrends{
		TotalUsers:           total,
		ActiveUsers:          active,
		RecentUsers:          recent,
		MonthlyRegistrations: monthly,
	}, nil
}
