package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ActivityStats, error)
}

type Handler struct {
	logger *slog.Logger
	Stats  StatsGetter
}

func NewHandler(logger *slog.Logger, stats StatsGetter) *Handler {
	return &Handler{
		logger: logger,
		Stats:  stats,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// AdminStats serves GET /admin/stats?minutes=N. Missing minutes means the default window.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	var minutes int
	if s := r.URL.Query().Get("minutes"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.handleError(w, r, e.Invalid("minutes", "must be an integer"))
			return
		}
		minutes = n
	}

	stats, err := h.Stats.GetStats(r.Context(), domain.StatsRequest{Minutes: minutes})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("stats success", slog.Int("minutes", stats.Minutes))
	h.writeJSON(w, http.StatusOK, stats)
}
