package handlers

import (
	"errors"
	"net/http"

	"github.com/scholarspace/user-service/internal/models"
	pkghttp "github.com/scholarspace/user-service/pkg/http"
)

// writeServiceError translates service sentinel errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Email already registered")
	case errors.Is(err, models.ErrInvalidCredential):
		pkghttp.WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, models.ErrAccountDeactivated):
		pkghttp.WriteForbidden(w, "Account is deactivated")
	case errors.Is(err, models.ErrResetTokenInvalid):
		pkghttp.WriteBadRequest(w, "Invalid reset token")
	case errors.Is(err, models.ErrResetTokenExpired):
		pkghttp.WriteBadRequest(w, "Reset token has expired")
	case errors.Is(err, models.ErrDirectoryUnavailable):
		pkghttp.WriteError(w, http.StatusServiceUnavailable, "directory_unavailable", "Directory authentication is not available")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid request")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
