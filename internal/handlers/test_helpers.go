package handlers

import (
	"context"

	"github.com/scholarspace/user-service/internal/models"
	"github.com/scholarspace/user-service/internal/services"
)

// MockAuthService implements AuthService for testing.
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, email, password string) (*services.LoginResponse, error)
	LoginDirectoryFunc       func(ctx context.Context, email, password string) (*services.LoginResponse, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	ValidateResetTokenFunc   func(token string) bool
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrInvalidCredential
}

func (m *MockAuthService) LoginDirectory(ctx context.Context, email, password string) (*services.LoginResponse, error) {
	if m.LoginDirectoryFunc != nil {
		return m.LoginDirectoryFunc(ctx, email, password)
	}
	return nil, models.ErrInvalidCredential
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return "", models.ErrNotFound
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return models.ErrResetTokenInvalid
}

func (m *MockAuthService) ValidateResetToken(token string) bool {
	if m.ValidateResetTokenFunc != nil {
		return m.ValidateResetTokenFunc(token)
	}
	return false
}

// MockRegistrationService implements RegistrationService for testing.
type MockRegistrationService struct {
	RegisterFunc func(ctx context.Context, params services.RegistrationParams) (*models.User, error)
}

func (m *MockRegistrationService) Register(ctx context.Context, params services.RegistrationParams) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, params)
	}
	return nil, models.ErrInternalServer
}

// MockUserService implements UserService for testing.
type MockUserService struct {
	GetByIDFunc        func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListByRoleFunc     func(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateProfileFunc  func(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error)
	ChangeRoleFunc     func(ctx context.Context, id int64, role models.Role) (*models.User, error)
	SetActiveFunc      func(ctx context.Context, id int64, active bool) error
	ChangePasswordFunc func(ctx context.Context, id int64, oldPassword, newPassword string) error
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, params)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) ChangeRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, id, role)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return models.ErrNotFound
}

func (m *MockUserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword)
	}
	return models.ErrNotFound
}

// MockAnalyticsService implements AnalyticsService for testing.
type MockAnalyticsService struct {
	UsersByRoleFunc func(ctx context.Context) (*services.RoleDistribution, error)
	TrendsFunc      func(ctx context.Context) (*services.UserTrends, error)
}

func (m *MockAnalyticsService) UsersByRole(ctx context.Context) (*services.RoleDistribution, error) {
	if m.UsersByRoleFunc != nil {
		return m.UsersByRoleFunc(ctx)
	}
	return &services.RoleDistribution{}, nil
}

func (m *MockAnalyticsService) Trends(ctx context.Context) (*services.UserTrends, error) {
	if m.TrendsFunc != nil {
		return m.TrendsFunc(ctx)
	}
	return &services.UserTrends{}, nil
}
