package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"safeTrip/internal/api"
	"safeTrip/internal/auth"
	"safeTrip/internal/config"
	"safeTrip/internal/events"
	"safeTrip/internal/redis"
	"safeTrip/internal/service"
	"safeTrip/internal/storage"
	"safeTrip/internal/storage/postgres"
	"safeTrip/internal/storage/sqlite"
	"safeTrip/internal/workers"
	"safeTrip/pkg/logger"
)

const notifierPoolSize = 2

// Store is the record store contract shared by the Postgres and SQLite backends.
type Store interface {
	Places() service.PlaceRepository
	Incidents() service.IncidentRepository
	Zones() service.ZoneRepository
	Locations() service.LocationRepository
	Contacts() service.ContactRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Store      Store
	Redis      *redis.Redis
	Events     *events.Publisher
	Notifier   *workers.ContactNotifier
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}

	logger.Info("Initializing store", slog.String("driver", cfg.Storage.Driver))
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init store", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	c.Store = store

	if err := store.Migrate(ctx); err != nil {
		c.ShutdownAll()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	if cfg.Storage.SeedPlaces {
		if err := storage.SeedPlaces(ctx, store.Places(), logger); err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to seed places: %w", err)
		}
	}

	var alerts service.AlertQueue
	if cfg.Redis.Addr != "" {
		logger.Info("Initializing Redis")
		c.Redis, err = redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		queue := redis.NewAlertQueue(c.Redis.Client, cfg.Redis.QueueKey, logger)
		alerts = queue

		if !cfg.Notifier.Disabled && cfg.Notifier.URL != "" {
			c.Notifier = workers.NewContactNotifier(logger, cfg.Notifier, queue, notifierPoolSize)
		}
	} else {
		logger.Warn("REDIS_ADDR empty, contact alerts are not queued")
	}

	var publisher service.EventPublisher
	if cfg.NATS.URL != "" {
		logger.Info("Initializing NATS")
		c.Events, err = events.Connect(cfg.NATS, logger)
		if err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to init nats: %w", err)
		}
		publisher = c.Events
	}

	places := service.NewPlaceIndex(store.Places(), logger)
	safety := service.NewSafetyAggregator(store.Zones(), store.Incidents(), logger)
	srv := service.NewService(
		places,
		safety,
		service.NewLocationService(store.Locations(), safety, logger),
		service.NewEmergencyDispatcher(places, store.Locations(), store.Contacts(), alerts, publisher, logger),
		service.NewIncidentReporter(store.Incidents(), store.Zones(), publisher, logger),
		service.NewContactService(store.Contacts(), logger),
		service.NewStatsService(store.Locations()),
	)

	c.HttpServer = api.NewServer(ctx, cfg, logger, srv, auth.NewVerifier(cfg.Auth), store)
	logger.Info("Initialized server")

	return c, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		return sqlite.Open(ctx, cfg.Storage.SQLitePath, logger)
	default:
		return postgres.NewPostgres(ctx, cfg, logger)
	}
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

// ShutdownAll closes whatever was initialized, event bus first and store last.
func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("shutting down components")

	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			c.logger.Error("NATS close failed", slog.Any("error", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.Any("error", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.logger.Error("store close failed", slog.Any("error", err))
		}
	}

	c.logger.Info("all components stopped", slog.Duration("latency", time.Since(start)))
}
