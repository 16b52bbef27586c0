package middleware

import (
	"net/http"

	"github.com/shopfront/backend/internal/models"
)

// RoleMiddleware checks that the authenticated user's role is >= requiredRole.
// It must run after AuthMiddleware.
func RoleMiddleware(requiredRole models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}

			if user.Role < requiredRole {
				writeError(w, http.StatusForbidden, msgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
