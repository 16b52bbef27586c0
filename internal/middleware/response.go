package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/shopfront/backend/internal/logger"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// Messages of responses written by middlewares
const (
	msgUnknownError    = "unknown error"
	msgInvalidSession  = "invalid session"
	msgSessionExpired  = "session expired"
	msgForbidden       = "insufficient permissions"
	msgInvalidAPIKey   = "invalid or missing API key"
	msgRequestTooLarge = "request body too large"
	msgAuthRequired    = "authentication required"
)

// writeError writes a failed envelope with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.Response{Success: false, Message: message}); err != nil {
		logger.Logger.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}
