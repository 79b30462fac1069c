package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
)

type LocationRepo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func (r *LocationRepo) Save(ctx context.Context, loc *domain.UserLocation) error {
	const op = "sqlite.Location.Save"

	if loc == nil || loc.UserID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		INSERT INTO user_locations (id, user_id, latitude, longitude, address, accuracy_meters, is_emergency, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		loc.ID.String(),
		loc.UserID.String(),
		loc.Latitude,
		loc.Longitude,
		loc.Address,
		loc.AccuracyMeters,
		loc.IsEmergency,
		formatTime(loc.RecordedAt),
	)
	if err != nil {
		r.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("user_id", loc.UserID.String()),
		)
		return wrapError(ctx, op, err)
	}
	return nil
}

func (r *LocationRepo) CountUniqueUsers(ctx context.Context, minutes int) (int64, error) {
	const op = "sqlite.Location.CountUniqueUsers"
	return r.count(ctx, op, `SELECT COUNT(DISTINCT user_id) FROM user_locations WHERE recorded_at >= ?`, minutes)
}

func (r *LocationRepo) CountEmergencies(ctx context.Context, minutes int) (int64, error) {
	const op = "sqlite.Location.CountEmergencies"
	return r.count(ctx, op, `SELECT COUNT(*) FROM user_locations WHERE is_emergency = 1 AND recorded_at >= ?`, minutes)
}

func (r *LocationRepo) count(ctx context.Context, op, query string, minutes int) (int64, error) {
	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	now := time.Now
	if r.now != nil {
		now = r.now
	}
	since := formatTime(now().Add(-time.Duration(minutes) * time.Minute))

	var cnt int64
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&cnt); err != nil {
		r.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.Int("minutes", minutes),
		)
		return 0, wrapError(ctx, op, err)
	}
	return cnt, nil
}
