package components

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"safeTrip/internal/config"
	"safeTrip/internal/domain"
)

func TestInitComponents_SQLiteWithoutOptionalServices(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{
		Env:     "test",
		Http:    config.HttpConfig{Port: ":0", AllowedOrigins: []string{"*"}},
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, SQLitePath: ":memory:", SeedPlaces: true},
		Auth:    config.AuthConfig{JWTSecret: "secret"},
		APIKey:  "key",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := InitComponents(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("InitComponents: %v", err)
	}
	defer c.ShutdownAll()

	if c.HttpServer == nil || c.Store == nil {
		t.Fatal("server and store must be initialized")
	}
	if c.Redis != nil || c.Events != nil || c.Notifier != nil {
		t.Fatal("optional services must stay disabled without configuration")
	}

	hospital := domain.PlaceHospital
	got, err := c.Store.Places().ListNear(ctx, domain.Coordinate{Latitude: 28.6139, Longitude: 77.2090}, 500, &hospital)
	if err != nil {
		t.Fatalf("ListNear: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected seeded places")
	}
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	for _, env := range []string{"local", "dev", "prod", ""} {
		if SetupLogger(env) == nil {
			t.Fatalf("nil logger for env %q", env)
		}
	}
}
