package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"safeTrip/internal/service"
	"safeTrip/pkg/e"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLite struct {
	DB       *sql.DB
	Place    *PlaceRepo
	Incident *IncidentRepo
	Zone     *ZoneRepo
	Location *LocationRepo
	Contact  *ContactRepo
	logger   *slog.Logger
}

// Open opens the database at path. ":memory:" gives a private in-process store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	const op = "sqlite.Open"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, e.Wrap(op, err)
		}
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, e.Wrap(op, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, e.Wrap(op, err)
	}

	logger.Info("SQLite opened", slog.String("path", path))

	return &SQLite{
		DB:       db,
		Place:    &PlaceRepo{db: db, logger: logger},
		Incident: &IncidentRepo{db: db, logger: logger},
		Zone:     &ZoneRepo{db: db, logger: logger},
		Location: &LocationRepo{db: db, logger: logger},
		Contact:  &ContactRepo{db: db, logger: logger},
		logger:   logger,
	}, nil
}

func (s *SQLite) Places() service.PlaceRepository       { return s.Place }
func (s *SQLite) Incidents() service.IncidentRepository { return s.Incident }
func (s *SQLite) Zones() service.ZoneRepository         { return s.Zone }
func (s *SQLite) Locations() service.LocationRepository { return s.Location }
func (s *SQLite) Contacts() service.ContactRepository   { return s.Contact }

func (s *SQLite) Migrate(ctx context.Context) error {
	const op = "sqlite.Migrate"

	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		s.logger.Error("schema migration failed", slog.String("op", op), slog.Any("error", err))
		return wrapError(ctx, op, err)
	}
	s.logger.Info("SQLite schema is up to date")
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return wrapError(ctx, "sqlite.Ping", s.DB.PingContext(ctx))
}

func (s *SQLite) Close() error {
	return s.DB.Close()
}

// wrapError maps driver constraint codes onto the error taxonomy.
func wrapError(ctx context.Context, op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return e.WrapError(ctx, op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// searchRadius widens the latitude prefilter. Exact membership is decided by the caller.
func searchRadius(radiusMeters float64) float64 {
	return radiusMeters*1.001 + 1
}
