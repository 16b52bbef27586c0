package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopfront/backend/internal/middleware"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

const (
	msgUnknownError   = "unknown error"
	msgInvalidBody    = "invalid request body"
	msgAuthRequired   = "authentication required"
	msgUserNotInCtx   = "user not found in context"
	msgImageRequired  = "image file is required"
	msgInvalidUpload  = "failed to parse upload"
	msgEmptyImageFile = "image file cannot be empty"
)

// clientErrors maps domain errors to the status they are reported with.
// The error text itself is the response message.
var clientErrors = []struct {
	err    error
	status int
}{
	{models.ErrMalformedID, http.StatusBadRequest},
	{models.ErrProductDelisted, http.StatusBadRequest},
	{models.ErrEmptyCart, http.StatusBadRequest},
	{models.ErrDelistedProductInCart, http.StatusBadRequest},
	{models.ErrUnsupportedFormat, http.StatusBadRequest},
	{models.ErrFileTooLarge, http.StatusBadRequest},
	{models.ErrInvalidAccount, http.StatusBadRequest},
	{models.ErrInvalidPassword, http.StatusBadRequest},
	{models.ErrSessionExpired, http.StatusUnauthorized},
	{models.ErrInvalidSession, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrProductNotFound, http.StatusNotFound},
	{models.ErrDuplicateAccount, http.StatusConflict},
}

// BaseHandler writes {success, message, result} envelopes
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a successful envelope carrying result
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, message string, result any) {
	h.write(w, status, models.Response{Success: true, Message: message, Result: result})
}

// RespondError sends a failed envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.write(w, status, models.Response{Success: false, Message: message})
}

// RespondServiceError translates a service error into a status and message.
// Unrecognised errors are logged and reported as "unknown error".
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("failed to "+action,
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
	h.RespondError(w, status, message)
}

func (h *BaseHandler) write(w http.ResponseWriter, status int, body models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// statusFor returns the HTTP status and message for a service error
func statusFor(err error) (int, string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.status, ce.err.Error()
		}
	}
	return http.StatusInternalServerError, msgUnknownError
}

// decodeJSON decodes the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// currentUser returns the user stored by the auth middleware
func (h *BaseHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error(msgUserNotInCtx)
		h.RespondError(w, http.StatusUnauthorized, msgAuthRequired)
		return nil, false
	}
	return user, true
}
