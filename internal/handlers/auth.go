package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scholarspace/user-service/internal/models"
	"github.com/scholarspace/user-service/internal/services"
	pkghttp "github.com/scholarspace/user-service/pkg/http"
)

// AuthService defines the interface for authentication business logic.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResponse, error)
	LoginDirectory(ctx context.Context, email, password string) (*services.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ValidateResetToken(token string) bool
}

// RegistrationService is the slice of user management the auth surface needs.
type RegistrationService interface {
	Register(ctx context.Context, params services.RegistrationParams) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	service      AuthService
	registration RegistrationService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service AuthService, registration RegistrationService) *AuthHandler {
	return &AuthHandler{
		service:      service,
		registration: registration,
	}
}

// Request DTOs

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the request body for registration. Role and
// the profile fields are optional; the role defaults to STUDENT.
type RegisterRequest struct {
	Name             string `json:"name" validate:"required,min=1"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	Role             string `json:"role" validate:"omitempty"`
	Phone            string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth      string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address          string `json:"address" validate:"omitempty,max=255"`
	EmergencyContact string `json:"emergencyContact" validate:"omitempty,max=255"`
	DepartmentID     *int64 `json:"departmentId" validate:"omitempty,gt=0"`
}

// ForgotPasswordRequest represents the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for redeeming a reset
// token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Login handles local email/password login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// LoginDirectory handles login against the corporate directory.
func (h *AuthHandler) LoginDirectory(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.LoginDirectory(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Register handles account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var role models.Role
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			pkghttp.WriteBadRequest(w, "Invalid role: "+req.Role)
			return
		}
		role = parsed
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid date format for dateOfBirth. Use YYYY-MM-DD")
			return
		}
		dateOfBirth = &parsed
	}

	user, err := h.registration.Register(r.Context(), services.RegistrationParams{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Role:             role,
		Phone:            req.Phone,
		DateOfBirth:      dateOfBirth,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		DepartmentID:     req.DepartmentID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"userId":  strconv.FormatInt(user.ID, 10),
		"email":   user.Email,
	})
}

// ForgotPassword issues a password reset token. The token is included in
// the response so environments without a mail transport can complete the
// flow.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	token, err := h.service.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset token generated successfully",
		"token":   token,
		"email":   req.Email,
	})
}

// ResetPassword redeems a reset token and sets the new password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}

// ValidateResetToken reports whether a reset token is still redeemable.
// The check never consumes the token.
func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		pkghttp.WriteBadRequest(w, "Reset token is required")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{
		"valid": h.service.ValidateResetToken(token),
	})
}
