package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"

	"github.com/google/uuid"
)

type IncidentRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *IncidentRepo) Create(ctx context.Context, inc *domain.IncidentReport) error {
	const op = "sqlite.Incident.Create"

	const query = `
		INSERT INTO incident_reports (id, reporter_id, incident_type, latitude, longitude, description, severity, status, reported_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		inc.ID.String(),
		uuidPtrArg(inc.ReporterID),
		string(inc.IncidentType),
		inc.Latitude,
		inc.Longitude,
		inc.Description,
		inc.Severity,
		string(inc.Status),
		formatTime(inc.ReportedAt),
		formatTimePtr(inc.ResolvedAt),
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return wrapError(ctx, op, err)
	}
	return nil
}

func (r *IncidentRepo) ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.IncidentReport, error) {
	const op = "sqlite.Incident.ListNear"

	const query = `
		SELECT id, reporter_id, incident_type, latitude, longitude, description, severity, status, reported_at, resolved_at
		FROM incident_reports
		WHERE status <> 'resolved'
		  AND latitude BETWEEN ? AND ?
	`

	minLat, maxLat := geo.LatitudeBand(center, searchRadius(radiusMeters))

	rows, err := r.db.QueryContext(ctx, query, minLat, maxLat)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.IncidentReport, 0, 8)
	for rows.Next() {
		var (
			inc                  domain.IncidentReport
			id, reportedAt       string
			reporter, resolvedAt *string
		)
		if err := rows.Scan(
			&id,
			&reporter,
			&inc.IncidentType,
			&inc.Latitude,
			&inc.Longitude,
			&inc.Description,
			&inc.Severity,
			&inc.Status,
			&reportedAt,
			&resolvedAt,
		); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, wrapError(ctx, op, err)
		}
		if inc.ID, err = uuid.Parse(id); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if inc.ReporterID, err = parseUUIDPtr(reporter); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if inc.ReportedAt, err = parseTime(reportedAt); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if inc.ResolvedAt, err = parseTimePtr(resolvedAt); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}

	return out, nil
}

func uuidPtrArg(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
