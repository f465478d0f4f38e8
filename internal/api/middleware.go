/**
 * @description
 * Custom middleware for the HTTP router: opaque-token session authentication
 * and the admin role guard. The authenticated user, session token and role
 * travel in the request context, never in package globals.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - internal/app, internal/domain: Session resolution and models.
 */

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/vaultra/account-service/internal/app"
	"github.com/vaultra/account-service/internal/domain"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	authUserContextKey     contextKey = "authUser"
	sessionTokenContextKey contextKey = "sessionToken"
)

// GetAuthUser returns the authenticated user from the request context.
func GetAuthUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(authUserContextKey).(*domain.User)
	return user, ok
}

// GetSessionToken returns the caller's presented session token.
func GetSessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenContextKey).(string)
	return token, ok
}

func bearerToken(header string) (string, bool) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// SessionAuthMiddleware validates the presented bearer token against the
// session store and injects the user and token into the request context.
func SessionAuthMiddleware(service *app.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				writeError(w, domain.ErrUnauthorized)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				writeError(w, domain.ErrUnauthorized)
				return
			}

			user, _, err := service.AuthenticateToken(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authUserContextKey, user)
			ctx = context.WithValue(ctx, sessionTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated callers without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetAuthUser(r.Context())
		if !ok {
			writeError(w, domain.ErrUnauthorized)
			return
		}
		if !user.IsAdmin() {
			writeError(w, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
