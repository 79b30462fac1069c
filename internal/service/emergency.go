package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/internal/metrics"
	"safeTrip/pkg/validator"

	"github.com/google/uuid"
)

const (
	DispatchRadiusMeters = 10000.0
	NearestServicesLimit = 3
	EstimatedArrivalBand = "8-12 minutes"
)

var emergencyNumbers = map[domain.EmergencyType]string{
	domain.EmergencyMedical: "108",
	domain.EmergencyPolice:  "100",
	domain.EmergencyFire:    "101",
	domain.EmergencyGeneral: "112",
}

// Fire maps to generic safety points. General has no place filter.
var servicePlaceType = map[domain.EmergencyType]domain.PlaceType{
	domain.EmergencyMedical: domain.PlaceHospital,
	domain.EmergencyPolice:  domain.PlacePolice,
	domain.EmergencyFire:    domain.PlaceSafety,
}

// EmergencyNumber returns the national number for t, falling back to the general one.
func EmergencyNumber(t domain.EmergencyType) string {
	if n, ok := emergencyNumbers[t]; ok {
		return n
	}
	return emergencyNumbers[domain.EmergencyGeneral]
}

type emergencyDispatcher struct {
	places    PlaceIndex
	locations LocationRepository
	contacts  ContactRepository
	alerts    AlertQueue
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewEmergencyDispatcher wires the dispatcher. alerts and events may be nil.
func NewEmergencyDispatcher(
	places PlaceIndex,
	locations LocationRepository,
	contacts ContactRepository,
	alerts AlertQueue,
	events EventPublisher,
	logger *slog.Logger,
) EmergencyDispatcher {
	if events == nil {
		events = nopPublisher{}
	}
	return &emergencyDispatcher{
		places:    places,
		locations: locations,
		contacts:  contacts,
		alerts:    alerts,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Dispatch simulates a responder dispatch. Anonymous callers are served; an identified
// caller additionally gets the ping stored and the emergency contacts alerted.
func (s *emergencyDispatcher) Dispatch(ctx context.Context, req domain.EmergencyRequest) (*domain.EmergencyResponse, error) {
	const op = "service.EmergencyDispatcher.Dispatch"

	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	center := req.Coordinate()
	requestID := fmt.Sprintf("EMR-%d-%s", now.UnixMilli(), uuid.NewString()[:8])

	s.logger.Warn("emergency dispatch",
		slog.String("request_id", requestID),
		slog.String("type", string(req.EmergencyType)),
		slog.Int("severity", req.Severity),
		slog.Float64("lat", center.Latitude),
		slog.Float64("lng", center.Longitude),
	)

	resp := &domain.EmergencyResponse{
		RequestID:        requestID,
		Status:           domain.DispatchStatusDispatched,
		EstimatedArrival: EstimatedArrivalBand,
		NearestServices:  s.nearestServices(ctx, op, center, req.EmergencyType),
		EmergencyNumber:  EmergencyNumber(req.EmergencyType),
	}

	if userID, err := identity(req.UserID); err == nil {
		s.notifyContacts(ctx, op, requestID, userID, req, now)
	}

	metrics.DispatchesTotal.WithLabelValues(string(req.EmergencyType)).Inc()
	publish(ctx, s.logger, s.events, "emergency.dispatched", map[string]any{
		"requestId":     requestID,
		"emergencyType": req.EmergencyType,
		"severity":      req.Severity,
		"latitude":      center.Latitude,
		"longitude":     center.Longitude,
		"dispatchedAt":  now,
	})

	return resp, nil
}

// nearestServices never fails the dispatch; an empty list is returned on lookup errors.
func (s *emergencyDispatcher) nearestServices(ctx context.Context, op string, center domain.Coordinate, t domain.EmergencyType) []domain.NearbyPlace {
	q := domain.PlaceQuery{Center: center, RadiusMeters: DispatchRadiusMeters}
	if pt, ok := servicePlaceType[t]; ok {
		q.Type = &pt
	}

	seq, err := s.places.Query(ctx, q)
	if err != nil {
		s.logger.Error("nearest services lookup failed", slog.String("op", op), slog.Any("error", err))
		return []domain.NearbyPlace{}
	}

	out := make([]domain.NearbyPlace, 0, NearestServicesLimit)
	for p := range seq {
		if len(out) == NearestServicesLimit {
			break
		}
		out = append(out, p)
	}
	return out
}

func (s *emergencyDispatcher) notifyContacts(ctx context.Context, op, requestID string, userID uuid.UUID, req domain.EmergencyRequest, now time.Time) {
	center := req.Coordinate()

	loc := domain.UserLocation{
		ID:          uuid.New(),
		UserID:      userID,
		Coordinate:  center,
		Address:     FormatAddress(center),
		IsEmergency: true,
		RecordedAt:  now,
	}
	if err := s.locations.Save(ctx, &loc); err != nil {
		s.logger.Warn("emergency location save failed", slog.String("op", op), slog.Any("error", err))
	}

	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("emergency contacts lookup failed", slog.String("op", op), slog.Any("error", err))
		return
	}
	s.logger.Info("notifying emergency contacts",
		slog.String("request_id", requestID),
		slog.String("user_id", userID.String()),
		slog.Int("contacts", len(contacts)),
	)

	if s.alerts == nil || len(contacts) == 0 {
		return
	}
	alert := domain.ContactAlert{
		RequestID:     requestID,
		UserID:        userID.String(),
		Latitude:      center.Latitude,
		Longitude:     center.Longitude,
		EmergencyType: req.EmergencyType,
		Severity:      req.Severity,
		Contacts:      len(contacts),
		CreatedAt:     now,
	}
	if err := s.alerts.Enqueue(ctx, alert); err != nil {
		s.logger.Warn("contact alert enqueue failed", slog.String("op", op), slog.Any("error", err))
	}
}
