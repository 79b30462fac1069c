package service

import (
	"context"
	"iter"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// Storage-side contracts. ListNear* methods may over-select; callers apply exact
// great-circle membership themselves.
type PlaceRepository interface {
	Create(ctx context.Context, place *domain.Place) error
	ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64, placeType *domain.PlaceType) ([]domain.Place, error)
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.IncidentReport) error
	ListNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.IncidentReport, error)
}

type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.SafetyZone) error
	// ListActiveNear returns active zones whose center is within max(radiusMeters, zone radius).
	ListActiveNear(ctx context.Context, center domain.Coordinate, radiusMeters float64) ([]domain.SafetyZone, error)
}

type LocationRepository interface {
	Save(ctx context.Context, loc *domain.UserLocation) error
	CountUniqueUsers(ctx context.Context, minutes int) (int64, error)
	CountEmergencies(ctx context.Context, minutes int) (int64, error)
}

type ContactRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.EmergencyContact, error)
}

type AlertQueue interface {
	Enqueue(ctx context.Context, alert domain.ContactAlert) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Use cases
type PlaceIndex interface {
	Query(ctx context.Context, q domain.PlaceQuery) (iter.Seq[domain.NearbyPlace], error)
	Add(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error)
}

type SafetyAggregator interface {
	Assess(ctx context.Context, center domain.Coordinate, radiusMeters float64) (*domain.SafetyAssessment, error)
}

type LocationService interface {
	RecordLocation(ctx context.Context, req domain.RecordLocationRequest) (*domain.RecordLocationResult, error)
}

type EmergencyDispatcher interface {
	Dispatch(ctx context.Context, req domain.EmergencyRequest) (*domain.EmergencyResponse, error)
}

type IncidentReporter interface {
	Report(ctx context.Context, req domain.ReportIncidentRequest) (*domain.IncidentReport, error)
}

type ContactService interface {
	ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error)
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ActivityStats, error)
}

type Service struct {
	Places    PlaceIndex
	Safety    SafetyAggregator
	Locations LocationService
	Emergency EmergencyDispatcher
	Incidents IncidentReporter
	Contacts  ContactService
	Stats     StatsService
}

func NewService(
	places PlaceIndex,
	safety SafetyAggregator,
	locations LocationService,
	emergency EmergencyDispatcher,
	incidents IncidentReporter,
	contacts ContactService,
	stats StatsService,
) *Service {
	return &Service{
		Places:    places,
		Safety:    safety,
		Locations: locations,
		Emergency: emergency,
		Incidents: incidents,
		Contacts:  contacts,
		Stats:     stats,
	}
}

// identity turns the caller id attached by the auth layer into a user id.
func identity(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, e.ErrUnauthenticated
	}
	id, err := uuid.Parse(userID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, e.ErrUnauthenticated
	}
	return id, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

func publish(ctx context.Context, logger *slog.Logger, p EventPublisher, subject string, payload any) {
	if err := p.Publish(ctx, subject, payload); err != nil {
		logger.Warn("event publish failed", slog.String("subject", subject), slog.Any("error", err))
	}
}
