package postgres

import (
	"context"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

func (p *IncidentRepo) Create(ctx context.Context, inc *domain.IncidentReport) error {
	const op = "postgres.Incident.Create"

	const query = `
		INSERT INTO incident_reports (id, reporter_id, incident_type, geo_point, description, severity, status, reported_at, resolved_at)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, $10)
	`

	_, err := p.pool.Exec(ctx, query,
		inc.ID,
		inc.ReporterID,
		inc.IncidentType,
		inc.Longitude,
		inc.Latitude,
		inc.Description,
		inc.Severity,
		inc.Status,
		inc.ReportedAt,
		inc.ResolvedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("id", inc.ID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// ListNear returns unresolved incidents around center.
func (p *IncidentRepo) ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.IncidentReport, error) {
	const op = "postgres.Incident.ListNear"

	const query = `
		SELECT id, reporter_id, incident_type,
			   ST_Y(geo_point::geometry) AS lat,
			   ST_X(geo_point::geometry) AS lng,
			   description, severity, status, reported_at, resolved_at
		FROM incident_reports
		WHERE status <> 'resolved'
		  AND ST_DWithin(
			geo_point,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3,
			false
		)
	`

	rows, err := p.pool.Query(ctx, query, center.Longitude, center.Latitude, searchRadius(radiusMeters))
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.IncidentReport, 0, 8)
	for rows.Next() {
		var inc domain.IncidentReport
		if err := rows.Scan(
			&inc.ID,
			&inc.ReporterID,
			&inc.IncidentType,
			&inc.Latitude,
			&inc.Longitude,
			&inc.Description,
			&inc.Severity,
			&inc.Status,
			&inc.ReportedAt,
			&inc.ResolvedAt,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}
