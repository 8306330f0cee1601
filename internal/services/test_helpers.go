package services

import (
	"context"
	"time"

	"github.com/scholarspace/user-service/internal/directory"
	"github.com/scholarspace/user-service/internal/models"
	pkgauth "github.com/scholarspace/user-service/pkg/auth"
)

// MockUserRepository implements UserRepository for testing.
type MockUserRepository struct {
	GetByIDFunc         func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	ListFunc            func(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListByRoleFunc      func(ctx context.Context, role models.Role) ([]*models.User, error)
	CreateFunc          func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc          func(ctx context.Context, id int64, user *models.User) (*models.User, error)
	UpdatePasswordFunc  func(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLoginFunc func(ctx context.Context, id int64, at time.Time) error
	SetActiveFunc       func(ctx context.Context, id int64, active bool) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

// MockDirectoryAuthenticator implements DirectoryAuthenticator for testing.
type MockDirectoryAuthenticator struct {
	AuthenticateFunc   func(ctx context.Context, identifier, password string) (bool, error)
	LookupIdentityFunc func(ctx context.Context, identifier string) (*directory.Identity, error)
}

func (m *MockDirectoryAuthenticator) Authenticate(ctx context.Context, identifier, password string) (bool, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, identifier, password)
	}
	return false, nil
}

func (m *MockDirectoryAuthenticator) LookupIdentity(ctx context.Context, identifier string) (*directory.Identity, error) {
	if m.LookupIdentityFunc != nil {
		return m.LookupIdentityFunc(ctx, identifier)
	}
	return nil, models.ErrNotFound
}

// MockMailer implements Mailer for testing.
type MockMailer struct {
	SendPasswordResetEmailFunc func(ctx context.Context, email, token string, expiresAt time.Time) error
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token, expiresAt)
	}
	return nil
}

// MockAnalyticsRepository implements AnalyticsRepository for testing.
type MockAnalyticsRepository struct {
	CountByRoleFunc          func(ctx context.Context) (map[models.Role]int64, error)
	CountsFunc               func(ctx context.Context) (int64, int64, int64, error)
	MonthlyRegistrationsFunc func(ctx context.Context) (map[string]int64, error)
}

func (m *MockAnalyticsRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx)
	}
	return map[models.Role]int64{}, nil
}

func (m *MockAnalyticsRepository) Counts(ctx context.Context) (int64, int64, int64, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return 0, 0, 0, nil
}

func (m *MockAnalyticsRepository) MonthlyRegistrations(ctx context.Context) (map[string]int64, error) {
	if m.MonthlyRegistrationsFunc != nil {
		return m.MonthlyRegistrationsFunc(ctx)
	}
	return map[string]int64{}, nil
}

// NewTestUser builds an active student account for tests.
func NewTestUser(id int64, email, name string) *models.User {
	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      models.RoleStudent,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// NewTestUserWithPassword builds an account whose stored hash matches the
// given plaintext.
func NewTestUserWithPassword(id int64, email, name, password string) *models.User {
	user := NewTestUser(id, email, name)
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user.PasswordHash = hash
	return user
}
