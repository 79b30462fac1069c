package public

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"safeTrip/pkg/e"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON object")

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

func (h *Handler) badJSON(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).Debug("invalid JSON body", slog.Any("error", err))
	h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	var verr *e.ValidationError
	switch {
	case errors.As(err, &verr):
		l.Debug("validation failed", slog.String("field", verr.Field), slog.String("reason", verr.Reason))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid input",
			"field":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	case errors.Is(err, e.ErrUnauthenticated):
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
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

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode failed", slog.Any("error", err))
	}
}
