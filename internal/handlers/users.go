package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scholarspace/user-service/internal/auth"
	"github.com/scholarspace/user-service/internal/models"
	"github.com/scholarspace/user-service/internal/services"
	pkghttp "github.com/scholarspace/user-service/pkg/http"
)

// UserService defines the interface for account management business logic.
type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error)
	ChangeRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
}

// UserHandler handles user management HTTP requests.
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfileRequest carries optional profile mutations. Absent fields
// are left unchanged.
type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1"`
	Phone            *string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth      *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address          *string `json:"address" validate:"omitempty,max=255"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=255"`
	DepartmentID     *int64  `json:"departmentId" validate:"omitempty,gt=0"`
}

// UpdateUserRequest extends profile mutations with the admin-only role
// change.
type UpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role" validate:"omitempty"`
}

// ChangePasswordRequest carries a password change for the current user.
// OldPassword may be empty only for accounts on their first login.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// List returns a page of users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// ListByRole returns all users holding the given role. The role segment
// accepts the same spellings as registration, including the TEACHER alias.
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role, ok := models.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid role: "+chi.URLParam(r, "role"))
		return
	}

	users, err := h.service.ListByRole(r.Context(), role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// Get returns a single user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Profile returns the authenticated user's own record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile applies profile mutations to the authenticated user.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	params, err := profileParams(req)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Update applies admin mutations, including role changes, to any user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	params, err := profileParams(req.UpdateProfileRequest)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			pkghttp.WriteBadRequest(w, "Invalid role: "+*req.Role)
			return
		}
		user, err = h.service.ChangeRole(r.Context(), id, role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Activate re-enables a deactivated account.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate disables an account. Deactivated accounts cannot log in and
// their tokens stop being honored on the next request.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := userIDParam(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.SetActive(r.Context(), id, active); err != nil {
		writeServiceError(w, err)
		return
	}

	message := "User deactivated successfully"
	if active {
		message = "User activated successfully"
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ChangePassword replaces the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

func userIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	return strconv.ParseInt(raw, 10, 64)
}

func profileParams(req UpdateProfileRequest) (services.UpdateProfileParams, error) {
	params := services.UpdateProfileParams{
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		DepartmentID:     req.DepartmentID,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return params, err
		}
		params.DateOfBirth = &parsed
	}
	return params, nil
}
