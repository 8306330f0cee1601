package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarspace/user-service/internal/auth"
	"github.com/scholarspace/user-service/internal/directory"
	"github.com/scholarspace/user-service/internal/models"
	pkgauth "github.com/scholarspace/user-service/pkg/auth"
	pkglogger "github.com/scholarspace/user-service/pkg/logger"
)

// DirectoryAuthenticator is the contract the directory package fulfills.
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (bool, error)
	LookupIdentity(ctx context.Context, identifier string) (*directory.Identity, error)
}

// AuthService orchestrates local and directory authentication plus the
// password reset lifecycle.
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	resetStore  auth.ResetTokenStore
	dir         DirectoryAuthenticator // nil when directory auth is disabled
	mailer      Mailer
	resetTTL    time.Duration
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAuthService(
	repo UserRepository,
	tm *auth.TokenManager,
	resetStore auth.ResetTokenStore,
	dir DirectoryAuthenticator,
	mailer Mailer,
	resetTTL time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		resetStore:  resetStore,
		dir:         dir,
		mailer:      mailer,
		resetTTL:    resetTTL,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// LoginResponse is the payload returned on successful authentication.
type LoginResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsFirstLogin bool   `json:"isFirstLogin"`
	AuthType     string `json:"authType,omitempty"`
}

// Login authenticates against the local credential store. The deactivation
// check runs before any password comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType: "login_failed", AuthType: "local", FailureReason: "unknown_email",
			})
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !user.IsActive {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "login_failed", UserID: user.ID, AuthType: "local", FailureReason: "deactivated",
		})
		return nil, models.ErrAccountDeactivated
	}

	if user.PasswordHash == "" || pkgauth.ComparePassword(user.PasswordHash, password) != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "login_failed", UserID: user.ID, AuthType: "local", FailureReason: "invalid_credentials",
		})
		return nil, models.ErrInvalidCredential
	}

	// Informational only: signals the caller to trigger the forced
	// password-change flow. It does not block further API use.
	isFirstLogin := user.Role == models.RoleInstructor && user.IsFirstLogin

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("failed to update last login", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	token, err := s.tm.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success", UserID: user.ID, AuthType: "local", Success: true,
	})

	return &LoginResponse{
		Token:        token,
		UserID:       strconv.FormatInt(user.ID, 10),
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role.String(),
		IsFirstLogin: isFirstLogin,
	}, nil
}

// LoginDirectory authenticates against the directory and mirrors the fresh
// directory identity into the local store. Directory infrastructure failures
// are reported to the caller exactly like wrong credentials; the distinction
// only exists in the logs.
func (s *AuthService) LoginDirectory(ctx context.Context, email, password string) (*LoginResponse, error) {
	if s.dir == nil {
		return nil, models.ErrDirectoryUnavailable
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, models.ErrInvalidCredential
	}

	ok, err := s.dir.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Error("directory authentication error",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "login_failed", AuthType: "directory", FailureReason: "directory_error",
		})
		return nil, models.ErrInvalidCredential
	}
	if !ok {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "login_failed", AuthType: "directory", FailureReason: "invalid_credentials",
		})
		return nil, models.ErrInvalidCredential
	}

	identity, err := s.dir.LookupIdentity(ctx, email)
	if err != nil {
		s.logger.Error("directory identity lookup failed",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return nil, models.ErrInvalidCredential
	}

	name := identity.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		// First directory login: mirror the identity into a local account.
		// No password hash is stored; the directory stays authoritative.
		user, err = s.repo.Create(ctx, &models.User{
			Name:         name,
			Email:        email,
			Role:         identity.Role,
			IsActive:     true,
			IsFirstLogin: false,
		})
		if err != nil {
			s.logger.Error("failed to create directory-backed user", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
	case err != nil:
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	default:
		if !user.IsActive {
			return nil, models.ErrAccountDeactivated
		}
		// Refresh name and role from the live directory read.
		user.Name = name
		user.Role = identity.Role
		user, err = s.repo.Update(ctx, user.ID, user)
		if err != nil {
			s.logger.Error("failed to refresh directory-backed user", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("failed to update last login", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	token, err := s.tm.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success", UserID: user.ID, AuthType: "directory", Success: true,
	})

	return &LoginResponse{
		Token:        token,
		UserID:       strconv.FormatInt(user.ID, 10),
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role.String(),
		IsFirstLogin: false,
		AuthType:     "AD",
	}, nil
}

// RequestPasswordReset issues a single-use reset token for the account.
// Delivery is best-effort; the token is also returned so development
// environments can complete the flow without a mail transport.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if !user.IsActive {
		return "", models.ErrAccountDeactivated
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(s.resetTTL)
	s.resetStore.Put(token, auth.ResetToken{Email: email, ExpiresAt: expiresAt})

	if s.mailer != nil {
		if err := s.mailer.SendPasswordResetEmail(ctx, email, token, expiresAt); err != nil {
			s.logger.Warn("failed to send password reset email",
				slog.String("email", pkglogger.SanitizedEmail(email)),
				slog.Any("error", err))
		}
	}

	s.logger.Info("password reset requested", slog.Int64("user_id", user.ID))
	return token, nil
}

// ResetPassword redeems a reset token exactly once. Expired tokens are
// removed on detection; successful redemption also consumes the token and
// clears the first-login flag.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	rt, ok := s.resetStore.Get(token)
	if !ok {
		return models.ErrResetTokenInvalid
	}

	if rt.Expired() {
		s.resetStore.Delete(token)
		return models.ErrResetTokenExpired
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrBadRequest
	}

	user, err := s.repo.GetByEmail(ctx, rt.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("failed to update password", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.resetStore.Delete(token)

	s.logger.Info("password reset completed", slog.Int64("user_id", user.ID))
	return nil
}

// ValidateResetToken is a pure existence and non-expiry check. It never
// consumes the token.
func (s *AuthService) ValidateResetToken(token string) bool {
	rt, ok := s.resetStore.Get(token)
	return ok && !rt.Expired()
}
