package service

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"
	"safeTrip/pkg/e"
	"safeTrip/pkg/validator"

	"github.com/google/uuid"
)

type placeIndex struct {
	repo   PlaceRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewPlaceIndex(repo PlaceRepository, logger *slog.Logger) PlaceIndex {
	return &placeIndex{repo: repo, logger: logger, now: time.Now}
}

// Query returns places within q.RadiusMeters of q.Center ordered by distance, then id.
// The sequence ranges over a sorted snapshot and can be iterated any number of times.
func (s *placeIndex) Query(ctx context.Context, q domain.PlaceQuery) (iter.Seq[domain.NearbyPlace], error) {
	const op = "service.PlaceIndex.Query"

	if err := validateArea(q.Center, q.RadiusMeters); err != nil {
		return nil, err
	}
	if q.Type != nil && !q.Type.Valid() {
		return nil, e.Invalid("type", "unknown place type")
	}

	candidates, err := s.repo.ListNear(ctx, q.Center, q.RadiusMeters, q.Type)
	if err != nil {
		s.logger.Error("place lookup failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	hits := make([]domain.NearbyPlace, 0, len(candidates))
	for _, p := range candidates {
		if q.Type != nil && p.Type != *q.Type {
			continue
		}
		d := geo.DistanceMeters(q.Center, p.Coordinate)
		if d > q.RadiusMeters {
			continue
		}
		hits = append(hits, domain.NearbyPlace{Place: p, DistanceMeters: d})
	}

	slices.SortFunc(hits, func(a, b domain.NearbyPlace) int {
		if c := cmp.Compare(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	s.logger.Debug("places query done",
		slog.Int("candidates", len(candidates)),
		slog.Int("hits", len(hits)),
		slog.Float64("radius_m", q.RadiusMeters),
	)

	return slices.Values(hits), nil
}

// Add stores a user-submitted place. Duplicates are accepted as separate entries.
func (s *placeIndex) Add(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error) {
	const op = "service.PlaceIndex.Add"

	draft.Name = strings.TrimSpace(draft.Name)
	if err := validator.ValidateStruct(draft); err != nil {
		return nil, err
	}

	isOpen := true
	if draft.IsOpen != nil {
		isOpen = *draft.IsOpen
	}

	place := &domain.Place{
		ID:         uuid.New(),
		Name:       draft.Name,
		Type:       draft.Type,
		Coordinate: draft.Coordinate(),
		Address:    strings.TrimSpace(draft.Address),
		Phone:      draft.Phone,
		Rating:     0,
		IsOpen:     isOpen,
		Verified:   false,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, place); err != nil {
		s.logger.Error("place create failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	s.logger.Info("place added", slog.String("id", place.ID.String()), slog.String("type", string(place.Type)))
	return place, nil
}

func validateArea(center domain.Coordinate, radiusMeters float64) error {
	if math.IsNaN(center.Latitude) || center.Latitude < -90 || center.Latitude > 90 {
		return e.Invalid("latitude", "must be within [-90, 90]")
	}
	if math.IsNaN(center.Longitude) || center.Longitude < -180 || center.Longitude > 180 {
		return e.Invalid("longitude", "must be within [-180, 180]")
	}
	if !(radiusMeters > 0) || radiusMeters > validator.MaxQueryRadiusMeters {
		return e.Invalid("radius", fmt.Sprintf("must be > 0 and <= %.0f", validator.MaxQueryRadiusMeters))
	}
	return nil
}
