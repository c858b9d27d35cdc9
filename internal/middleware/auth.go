package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/token"
)

// ContextKey is a private key type so context values cannot collide with
// other packages.
type ContextKey string

const identityCtxKey = ContextKey("identity")

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   entity.Role
}

// JWTAuth validates the Authorization bearer token and stores the caller's
// identity in the request context. Requests without a valid token get 401.
func JWTAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			role, err := entity.ParseRole(claims.Role)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			identity := Identity{UserID: claims.UserID, Email: claims.Email, Role: role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityCtxKey, identity)))
		})
	}
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(Identity)
	return identity, ok
}

// RequireRole rejects callers whose role fails the given check.
func RequireRole(check func(entity.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !check(identity.Role) {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
