package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/mail"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/storage"
)

// parseID reads the {id} path segment as an unsigned integer.
func parseID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// writeServiceError maps service errors onto the JSON error envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Violations)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrInquiryClosed):
		httpx.JSONError(w, http.StatusConflict, "inquiry_closed", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", nil)
	case errors.Is(err, storage.ErrTooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "attachment_too_large", nil)
	case errors.Is(err, mail.ErrDisabled):
		httpx.JSONError(w, http.StatusServiceUnavailable, "mail_disabled", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
