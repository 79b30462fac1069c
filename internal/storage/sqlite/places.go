package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"

	"github.com/google/uuid"
)

type PlaceRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *PlaceRepo) Create(ctx context.Context, p *domain.Place) error {
	const op = "sqlite.Place.Create"

	const query = `
		INSERT INTO places (id, name, type, latitude, longitude, address, phone, rating, is_open, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(),
		p.Name,
		string(p.Type),
		p.Latitude,
		p.Longitude,
		p.Address,
		p.Phone,
		p.Rating,
		p.IsOpen,
		p.Verified,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return wrapError(ctx, op, err)
	}
	return nil
}

func (r *PlaceRepo) ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64, placeType *domain.PlaceType) ([]domain.Place, error) {
	const op = "sqlite.Place.ListNear"

	const query = `
		SELECT id, name, type, latitude, longitude, address, phone, rating, is_open, verified, created_at
		FROM places
		WHERE latitude BETWEEN ? AND ?
		  AND (? IS NULL OR type = ?)
	`

	minLat, maxLat := geo.LatitudeBand(center, searchRadius(radiusMeters))
	var typeArg any
	if placeType != nil {
		typeArg = string(*placeType)
	}

	rows, err := r.db.QueryContext(ctx, query, minLat, maxLat, typeArg, typeArg)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.Place, 0, 16)
	for rows.Next() {
		var (
			p         domain.Place
			id        string
			createdAt string
		)
		if err := rows.Scan(
			&id,
			&p.Name,
			&p.Type,
			&p.Latitude,
			&p.Longitude,
			&p.Address,
			&p.Phone,
			&p.Rating,
			&p.IsOpen,
			&p.Verified,
			&createdAt,
		); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, wrapError(ctx, op, err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}

	return out, nil
}
