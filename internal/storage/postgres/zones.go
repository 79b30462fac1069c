package postgres

import (
	"context"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ZoneRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewZoneRepo(pool *pgxpool.Pool, logger *slog.Logger) *ZoneRepo {
	return &ZoneRepo{pool: pool, logger: logger}
}

func (p *ZoneRepo) Create(ctx context.Context, z *domain.SafetyZone) error {
	const op = "postgres.Zone.Create"

	const query = `
		INSERT INTO safety_zones (id, name, zone_type, geo_point, radius_meters, risk_level, description, verified, active, created_by, created_at)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := p.pool.Exec(ctx, query,
		z.ID,
		z.Name,
		z.ZoneType,
		z.Longitude,
		z.Latitude,
		z.RadiusMeters,
		z.RiskLevel,
		z.Description,
		z.Verified,
		z.Active,
		z.CreatedBy,
		z.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// ListActiveNear selects zones whose own radius covers center or whose center lies within radiusMeters.
func (p *ZoneRepo) ListActiveNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.SafetyZone, error) {
	const op = "postgres.Zone.ListActiveNear"

	const query = `
		SELECT id, name, zone_type,
			   ST_Y(geo_point::geometry) AS lat,
			   ST_X(geo_point::geometry) AS lng,
			   radius_meters, risk_level, description, verified, active, created_by, created_at
		FROM safety_zones
		WHERE active
		  AND ST_DWithin(
			geo_point,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			GREATEST($3, radius_meters * 1.001 + 1),
			false
		)
	`

	rows, err := p.pool.Query(ctx, query, center.Longitude, center.Latitude, searchRadius(radiusMeters))
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.SafetyZone, 0, 4)
	for rows.Next() {
		var z domain.SafetyZone
		if err := rows.Scan(
			&z.ID,
			&z.Name,
			&z.ZoneType,
			&z.Latitude,
			&z.Longitude,
			&z.RadiusMeters,
			&z.RiskLevel,
			&z.Description,
			&z.Verified,
			&z.Active,
			&z.CreatedBy,
			&z.CreatedAt,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}
