package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Authentication failures
	ErrInvalidCredential    = errors.New("invalid credentials")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrTokenInvalid         = errors.New("token is invalid")
	ErrTokenExpired         = errors.New("token has expired")
	ErrResetTokenInvalid    = errors.New("password reset token is invalid")
	ErrResetTokenExpired    = errors.New("password reset token has expired")
	ErrDirectoryUnavailable = errors.New("directory service unavailable")
)
