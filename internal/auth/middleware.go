package auth

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/scholarspace/user-service/internal/models"
)

// contextKey is a private type for context keys.
type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the request-scoped authentication result. Authority is the
// prefixed role string (e.g. "ROLE_ADMIN") expected by the authorization
// layer. An absent Identity means the request is anonymous.
type Identity struct {
	Email     string
	UserID    int64
	Name      string
	Authority string
}

// UserFetcher is the single store lookup the filter needs to confirm a token
// still matches the live account record.
type UserFetcher interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticate returns the per-request authentication filter. It establishes
// identity when a valid bearer token is presented and otherwise lets the
// request continue as anonymous. It never rejects a request itself; gating
// access is the authorization middleware's job.
//
// The embedded role claim is not trusted on its own: the live account record
// is re-read each request, so a role change takes effect immediately instead
// of persisting until token expiry.
func Authenticate(tm *TokenManager, users UserFetcher, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := tm.Validate(tokenString)
			if err != nil {
				logger.Info("request token rejected", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Subject)
			if err != nil {
				logger.Info("token subject has no live account", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !user.IsActive {
				logger.Info("token rejected for deactivated account", slog.Int64("user_id", user.ID))
				next.ServeHTTP(w, r)
				return
			}

			// Missing role claim falls back to the live record; a stale one
			// that no longer matches fails the whole token.
			authority := claims.Role
			if authority == "" {
				authority = user.Role.String()
			} else if authority != user.Role.String() {
				logger.Info("token role no longer matches account",
					slog.Int64("user_id", user.ID),
					slog.String("token_role", claims.Role))
				next.ServeHTTP(w, r)
				return
			}

			identity := &Identity{
				Email:     user.Email,
				UserID:    user.ID,
				Name:      user.Name,
				Authority: models.NormalizeAuthority(authority),
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuthority enforces role-based access. The TEACHER alias is accepted
// wherever INSTRUCTOR is allowed; both sides are normalized before comparing.
func RequireAuthority(authorities ...string) func(next http.Handler) http.Handler {
	allowed := make([]string, 0, len(authorities))
	for _, a := range authorities {
		allowed = append(allowed, models.NormalizeAuthority(a))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(allowed, identity.Authority) {
				http.Error(w, "forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated allows any established identity through.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithIdentity attaches an established identity to the context.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the request identity, or nil for anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
