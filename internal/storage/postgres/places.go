package postgres

import (
	"context"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlaceRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPlaceRepo(pool *pgxpool.Pool, logger *slog.Logger) *PlaceRepo {
	return &PlaceRepo{pool: pool, logger: logger}
}

func (p *PlaceRepo) Create(ctx context.Context, place *domain.Place) error {
	const op = "postgres.Place.Create"

	const query = `
		INSERT INTO places (id, name, type, geo_point, address, phone, rating, is_open, verified, created_at)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		place.ID,
		place.Name,
		place.Type,
		place.Longitude,
		place.Latitude,
		place.Address,
		place.Phone,
		place.Rating,
		place.IsOpen,
		place.Verified,
		place.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *PlaceRepo) ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64, placeType *domain.PlaceType) ([]domain.Place, error) {
	const op = "postgres.Place.ListNear"

	const query = `
		SELECT id, name, type,
			   ST_Y(geo_point::geometry) AS lat,
			   ST_X(geo_point::geometry) AS lng,
			   address, phone, rating, is_open, verified, created_at
		FROM places
		WHERE ST_DWithin(
			geo_point,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3,
			false
		)
		  AND ($4::text IS NULL OR type = $4)
	`

	var typeArg *string
	if placeType != nil {
		s := string(*placeType)
		typeArg = &s
	}

	rows, err := p.pool.Query(ctx, query, center.Longitude, center.Latitude, searchRadius(radiusMeters), typeArg)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	places, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Place, error) {
		var pl domain.Place
		err := row.Scan(
			&pl.ID,
			&pl.Name,
			&pl.Type,
			&pl.Latitude,
			&pl.Longitude,
			&pl.Address,
			&pl.Phone,
			&pl.Rating,
			&pl.IsOpen,
			&pl.Verified,
			&pl.CreatedAt,
		)
		return pl, err
	})
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return places, nil
}
