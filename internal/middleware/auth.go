package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"loadestimator/internal/identity"
)

type AuthMiddleware struct {
	provider identity.Provider
	logr     *zap.Logger
}

type contextKey string

const ContextUsernameKey contextKey = "username"

// NewAuthMiddleware creates a reusable bearer-token auth middleware.
func NewAuthMiddleware(provider identity.Provider, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{provider: provider, logr: logr}
}

// RequireAuth validates the access token with the identity provider and
// attaches the username to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		username, err := m.provider.Authenticate(r.Context(), token)
		if err != nil {
			m.logr.Warn("token rejected", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUsernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Username returns the authenticated username from the request context.
func Username(ctx context.Context) string {
	username, _ := ctx.Value(ContextUsernameKey).(string)
	return username
}
