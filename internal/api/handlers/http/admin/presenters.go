package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"safeTrip/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	var verr *e.ValidationError
	switch {
	case errors.As(err, &verr):
		l.Warn("invalid admin request", slog.String("field", verr.Field), slog.String("reason", verr.Reason))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid input",
			"field":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		l.Error("handler error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode failed", slog.Any("error", err))
	}
}
