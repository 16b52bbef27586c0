package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionSweeper removes sessions whose tokens can no longer be refreshed
type SessionSweeper interface {
	SweepExpiredSessions(ctx context.Context) (int, error)
}

// SessionHandler handles session maintenance requests
type SessionHandler struct {
	BaseHandler
	sweeper SessionSweeper
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sweeper SessionSweeper, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sweeper:     sweeper,
	}
}

// RegisterRoutes registers session maintenance routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/sessions/expired", h.SweepExpired)
}

// SweepExpired handles DELETE /sessions/expired
// @Summary Remove stale sessions
// @Description Deletes sessions whose tokens have been expired for longer than the refresh grace period
// @Tags sessions
// @Produce json
// @Param X-API-Key header string true "Maintenance API key"
// @Success 200 {object} models.Response{result=int} "Number of removed sessions"
// @Failure 401 {object} models.Response "Invalid or missing API key"
// @Failure 500 {object} models.Response
// @Router /sessions/expired [delete]
func (h *SessionHandler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.sweeper.SweepExpiredSessions(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "sweep expired sessions")
		return
	}

	h.Logger.Info("session sweep completed", zap.Int("deletedCount", deleted))
	h.RespondJSON(w, http.StatusOK, "session sweep completed", deleted)
}
