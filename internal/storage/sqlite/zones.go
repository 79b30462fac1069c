package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"

	"github.com/google/uuid"
)

type ZoneRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *ZoneRepo) Create(ctx context.Context, z *domain.SafetyZone) error {
	const op = "sqlite.Zone.Create"

	const query = `
		INSERT INTO safety_zones (id, name, zone_type, latitude, longitude, radius_meters, risk_level, description, verified, active, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		z.ID.String(),
		z.Name,
		string(z.ZoneType),
		z.Latitude,
		z.Longitude,
		z.RadiusMeters,
		z.RiskLevel,
		z.Description,
		z.Verified,
		z.Active,
		uuidPtrArg(z.CreatedBy),
		formatTime(z.CreatedAt),
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return wrapError(ctx, op, err)
	}
	return nil
}

// ListActiveNear prefilters on the latitude gap against max(radiusMeters, zone radius).
func (r *ZoneRepo) ListActiveNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.SafetyZone, error) {
	const op = "sqlite.Zone.ListActiveNear"

	const query = `
		SELECT id, name, zone_type, latitude, longitude, radius_meters, risk_level, description, verified, active, created_by, created_at
		FROM safety_zones
		WHERE active = 1
		  AND ABS(latitude - ?) * ? <= MAX(?, radius_meters * 1.001 + 1)
	`

	rows, err := r.db.QueryContext(ctx, query, center.Latitude, geo.MetersPerDegreeLat, searchRadius(radiusMeters))
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.SafetyZone, 0, 4)
	for rows.Next() {
		var (
			z         domain.SafetyZone
			id        string
			createdBy *string
			createdAt string
		)
		if err := rows.Scan(
			&id,
			&z.Name,
			&z.ZoneType,
			&z.Latitude,
			&z.Longitude,
			&z.RadiusMeters,
			&z.RiskLevel,
			&z.Description,
			&z.Verified,
			&z.Active,
			&createdBy,
			&createdAt,
		); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, wrapError(ctx, op, err)
		}
		if z.ID, err = uuid.Parse(id); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if z.CreatedBy, err = parseUUIDPtr(createdBy); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if z.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}

	return out, nil
}
