package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/internal/service"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
)

// seedNamespace derives stable ids for the demo catalogue.
var seedNamespace = uuid.MustParse("8f9c4d1e-6a0b-4c3e-9e57-2b6f0a1d5c73")

type seedPlace struct {
	name     string
	typ      domain.PlaceType
	lat, lng float64
	address  string
	phone    string
	rating   float64
}

var demoPlaces = []seedPlace{
	{"City Hospital", domain.PlaceHospital, 28.6139, 77.2090, "Connaught Place, New Delhi", "+91-11-2336-5525", 4.2},
	{"AIIMS Emergency", domain.PlaceHospital, 28.5672, 77.2100, "Ansari Nagar, New Delhi", "+91-11-2658-8500", 4.5},
	{"Connaught Place Police Station", domain.PlacePolice, 28.6315, 77.2167, "Parliament Street, New Delhi", "100", 3.9},
	{"Tourist Police Booth", domain.PlacePolice, 28.6129, 77.2295, "India Gate, New Delhi", "1363", 4.0},
	{"Fire Station Connaught Place", domain.PlaceSafety, 28.6304, 77.2177, "Baba Kharak Singh Marg, New Delhi", "101", 4.1},
	{"The Imperial", domain.PlaceHotel, 28.6256, 77.2183, "Janpath, New Delhi", "+91-11-4111-6634", 4.7},
	{"Indian Coffee House", domain.PlaceRestaurant, 28.6328, 77.2197, "Baba Kharak Singh Marg, New Delhi", "", 4.0},
	{"India Tourism Office", domain.PlaceTravel, 28.6280, 77.2190, "88 Janpath, New Delhi", "+91-11-2332-0005", 4.3},
}

// SeedPlaces inserts the demo place catalogue. Rows that already exist are skipped.
func SeedPlaces(ctx context.Context, repo service.PlaceRepository, logger *slog.Logger) error {
	const op = "storage.SeedPlaces"

	inserted := 0
	for _, s := range demoPlaces {
		p := &domain.Place{
			ID:         uuid.NewSHA1(seedNamespace, []byte(s.name)),
			Name:       s.name,
			Type:       s.typ,
			Coordinate: domain.Coordinate{Latitude: s.lat, Longitude: s.lng},
			Address:    s.address,
			Rating:     s.rating,
			IsOpen:     true,
			Verified:   true,
			CreatedAt:  time.Now().UTC(),
		}
		if s.phone != "" {
			phone := s.phone
			p.Phone = &phone
		}

		err := repo.Create(ctx, p)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, e.ErrUniqueViolation):
		default:
			logger.Error("seed place failed", slog.String("op", op), slog.String("name", s.name), slog.Any("error", err))
			return e.Wrap(op, err)
		}
	}

	logger.Info("demo places seeded", slog.Int("inserted", inserted), slog.Int("catalogue", len(demoPlaces)))
	return nil
}
