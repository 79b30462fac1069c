package service_test

import (
	"bytes"
	"log/slog"
	"math"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"

	"github.com/google/uuid"
)

const testUser = "00000000-0000-0000-0000-000000000001"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func f64ptr(v float64) *float64 { return &v }

func idN(n byte) uuid.UUID {
	var id uuid.UUID
	id[15] = n
	return id
}

// northOf returns a point metersNorth of c along its meridian.
func northOf(c domain.Coordinate, metersNorth float64) domain.Coordinate {
	return domain.Coordinate{Latitude: c.Latitude + metersNorth/geo.MetersPerDegreeLat, Longitude: c.Longitude}
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
