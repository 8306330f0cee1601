package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scholarspace/user-service/internal/models"
	pkgauth "github.com/scholarspace/user-service/pkg/auth"
)

// UserRepository is the persistence contract for Principal records.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// UserService handles account management business logic.
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// RegistrationParams carries the fields accepted at registration. Profile
// attributes are optional.
type RegistrationParams struct {
	Name             string
	Email            string
	Password         string
	Role             models.Role
	Phone            string
	DateOfBirth      *time.Time
	Address          string
	EmergencyContact string
	DepartmentID     *int64
}

// Register creates a local account. Instructor accounts start with the
// first-login flag set, which forces a password change on first login.
func (s *UserService) Register(ctx context.Context, params RegistrationParams) (*models.User, error) {
	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check email uniqueness", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ValidatePassword(params.Password); err != nil {
		return nil, models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(params.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	role := params.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		Name:             params.Name,
		Email:            params.Email,
		PasswordHash:     hash,
		Role:             role,
		Phone:            params.Phone,
		DateOfBirth:      params.DateOfBirth,
		Address:          params.Address,
		EmergencyContact: params.EmergencyContact,
		DepartmentID:     params.DepartmentID,
		IsActive:         true,
		IsFirstLogin:     role == models.RoleInstructor,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", created.ID),
		slog.String("role", created.Role.String()))

	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return s.repo.ListByRole(ctx, role)
}

// UpdateProfileParams carries mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileParams struct {
	Name             *string
	Phone            *string
	DateOfBirth      *time.Time
	Address          *string
	EmergencyContact *string
	DepartmentID     *int64
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, params UpdateProfileParams) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.DateOfBirth != nil {
		user.DateOfBirth = params.DateOfBirth
	}
	if params.Address != nil {
		user.Address = *params.Address
	}
	if params.EmergencyContact != nil {
		user.EmergencyContact = *params.EmergencyContact
	}
	if params.DepartmentID != nil {
		user.DepartmentID = params.DepartmentID
	}

	return s.repo.Update(ctx, id, user)
}

func (s *UserService) ChangeRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	updated, err := s.repo.Update(ctx, id, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		slog.Int64("user_id", id),
		slog.String("role", role.String()))
	return updated, nil
}

// SetActive toggles account activation. Deactivation is the soft-delete
// path; accounts are never hard-deleted here.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("user activation changed",
		slog.Int64("user_id", id),
		slog.Bool("active", active))
	return nil
}

// ChangePassword replaces the password after verifying the current one.
// Accounts on their first login (instructor-created) may skip the old
// password check: the mandatory change flow runs before they know one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !user.IsFirstLogin {
		if user.PasswordHash == "" {
			return models.ErrInvalidCredential
		}
		if err := pkgauth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
			return models.ErrInvalidCredential
		}
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.Int64("user_id", id))
	return nil
}
