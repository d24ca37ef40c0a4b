package middleware

import (
	"context"
	"net/http"
	"strings"

	h "danceregistry/internal/delivery/http/helpers"
	"danceregistry/internal/domain"
)

type contextKey string

const authUserKey contextKey = "authUser"

// SetAuthUser returns a context with the verified user set. Used by auth middleware.
func SetAuthUser(ctx context.Context, user *domain.AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// AuthUserFromContext returns the authenticated user from the context, if present.
func AuthUserFromContext(ctx context.Context) (*domain.AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(*domain.AuthUser)
	return user, ok
}

// BearerToken extracts the token from the Authorization header.
// Returns "" when the header is missing or not in Bearer form.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// RequireAdmin returns a wrapper that validates the Bearer token and checks
// the admin role before calling next. Missing, malformed, or expired tokens
// get 401; a valid token without the admin role gets 403.
func RequireAdmin(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "admin access token required")
				return
			}
			user, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if user.Role != domain.RoleAdmin {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "admin access required")
				return
			}
			r = r.WithContext(SetAuthUser(r.Context(), user))
			next(w, r)
		}
	}
}
