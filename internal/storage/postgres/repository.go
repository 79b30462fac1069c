package postgres

import (
	"context"
	_ "embed"
	"log/slog"

	"safeTrip/internal/service"
	"safeTrip/pkg/e"
)

//go:embed schema.sql
var schema string

func (p *Postgres) Places() service.PlaceRepository       { return p.Place }
func (p *Postgres) Incidents() service.IncidentRepository { return p.Incident }
func (p *Postgres) Zones() service.ZoneRepository         { return p.Zone }
func (p *Postgres) Locations() service.LocationRepository { return p.Location }
func (p *Postgres) Contacts() service.ContactRepository   { return p.Contact }

// Migrate applies the idempotent schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	const op = "postgres.Migrate"

	if _, err := p.Pool.Exec(ctx, schema); err != nil {
		p.logger.Error("schema migration failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	p.logger.Info("Postgres schema is up to date")
	return nil
}

// searchRadius pads the ST_DWithin prefilter. Exact membership is decided by the caller.
func searchRadius(radiusMeters float64) float64 {
	return radiusMeters*1.001 + 1
}
