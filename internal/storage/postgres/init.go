package postgres

import (
	"context"
	"fmt"

	"log/slog"
	"safeTrip/internal/config"
	"safeTrip/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Pool     *pgxpool.Pool
	Place    *PlaceRepo
	Incident *IncidentRepo
	Zone     *ZoneRepo
	Location *LocationRepo
	Contact  *ContactRepo
	logger   *slog.Logger
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	logger.Info("Connecting to Postgres",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("db", cfg.Postgres.Database),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	logger.Info("Pinging Postgres database")
	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}
	logger.Info("Connected to Postgres successfully")

	return New(pool, logger), nil
}

// New builds the repositories on top of an existing pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	return &Postgres{
		Pool:     pool,
		Place:    NewPlaceRepo(pool, logger),
		Incident: NewIncidentRepo(pool, logger),
		Zone:     NewZoneRepo(pool, logger),
		Location: NewLocationRepo(pool, logger),
		Contact:  NewContactRepo(pool, logger),
		logger:   logger,
	}
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return e.WrapError(ctx, "postgres.Ping", p.Pool.Ping(ctx))
}
