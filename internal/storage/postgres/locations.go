package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLocationRepo(pool *pgxpool.Pool, logger *slog.Logger) *LocationRepo {
	return &LocationRepo{pool: pool, logger: logger}
}

// Save appends a location ping. The log is never updated in place.
func (p *LocationRepo) Save(ctx context.Context, loc *domain.UserLocation) error {
	const op = "postgres.Location.Save"

	if loc == nil || loc.UserID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		INSERT INTO user_locations (id, user_id, geo_point, address, accuracy_meters, is_emergency, recorded_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		loc.ID,
		loc.UserID,
		loc.Longitude,
		loc.Latitude,
		loc.Address,
		loc.AccuracyMeters,
		loc.IsEmergency,
		loc.RecordedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("user_id", loc.UserID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *LocationRepo) CountUniqueUsers(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Location.CountUniqueUsers"

	const query = `
		SELECT COUNT(DISTINCT user_id)
		FROM user_locations
		WHERE recorded_at >= NOW() - ($1 * INTERVAL '1 minute')
	`
	return p.count(ctx, op, query, minutes)
}

func (p *LocationRepo) CountEmergencies(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Location.CountEmergencies"

	const query = `
		SELECT COUNT(*)
		FROM user_locations
		WHERE is_emergency
		  AND recorded_at >= NOW() - ($1 * INTERVAL '1 minute')
	`
	return p.count(ctx, op, query, minutes)
}

func (p *LocationRepo) count(ctx context.Context, op, query string, minutes int) (int64, error) {
	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.Int("minutes", minutes),
		)
		return 0, e.WrapError(ctx, op, err)
	}

	return cnt, nil
}
