package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyAdmin contextKey = "admin"

// requireAuth is middleware that validates bearer tokens and attaches
// the authenticated administrator to the request context. Beyond the
// token itself, the embedded session must still be live; revoked and
// superseded sessions are rejected here.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
			return
		}

		admin, err := s.authService.Verify(r.Context(), token)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyAdmin, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the bearer token from the Authorization header.
// Returns empty string when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// currentAdmin extracts the authenticated administrator from the request
// context. Returns nil outside requireAuth-protected routes.
func currentAdmin(ctx context.Context) *domain.AdminUser {
	if admin, ok := ctx.Value(contextKeyAdmin).(*domain.AdminUser); ok {
		return admin
	}
	return nil
}
