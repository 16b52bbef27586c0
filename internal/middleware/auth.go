package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to the user owning the session
type Authenticator interface {
	Authenticate(ctx context.Context, token string, allowExpired bool) (*models.User, error)
}

// AuthMiddleware validates the bearer session token and stores the user and token in the request context.
// allowExpired lets expired tokens through so they can still be refreshed or logged out.
func AuthMiddleware(authenticator Authenticator, allowExpired bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token, allowExpired)
			if err != nil {
				switch {
				case errors.Is(err, models.ErrSessionExpired):
					writeError(w, http.StatusUnauthorized, msgSessionExpired)
				case errors.Is(err, models.ErrInvalidSession):
					writeError(w, http.StatusUnauthorized, msgInvalidSession)
				default:
					logger.Error("failed to authenticate request",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Error(err),
					)
					writeError(w, http.StatusInternalServerError, msgUnknownError)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUser retrieves the authenticated user from context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// GetToken retrieves the bearer token of the authenticated request from context
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithUser returns a copy of ctx carrying user and token, as AuthMiddleware stores them
func WithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}
