package sqlite

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"
	"safeTrip/pkg/e"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := Open(context.Background(), ":memory:", logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func north(c domain.Coordinate, meters float64) domain.Coordinate {
	return domain.Coordinate{Latitude: c.Latitude + meters/geo.MetersPerDegreeLat, Longitude: c.Longitude}
}

var center = domain.Coordinate{Latitude: 28.6140, Longitude: 77.2095}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestPlace_RoundTrip_AndBand(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	phone := "+91"
	created := time.Date(2025, 3, 1, 12, 0, 0, 123, time.UTC)
	inside := &domain.Place{
		ID: uuid.New(), Name: "City Hospital", Type: domain.PlaceHospital,
		Coordinate: domain.Coordinate{Latitude: 28.6139, Longitude: 77.2090},
		Phone:      &phone, IsOpen: true, CreatedAt: created,
	}
	outside := &domain.Place{
		ID: uuid.New(), Name: "Far", Type: domain.PlaceHospital,
		Coordinate: north(center, 3000), CreatedAt: created,
	}
	police := &domain.Place{
		ID: uuid.New(), Name: "Police", Type: domain.PlacePolice,
		Coordinate: north(center, 200), CreatedAt: created,
	}
	for _, p := range []*domain.Place{inside, outside, police} {
		if err := s.Place.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	hospital := domain.PlaceHospital
	got, err := s.Place.ListNear(ctx, center, 1000, &hospital)
	if err != nil {
		t.Fatalf("ListNear: %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Fatalf("unexpected places %+v", got)
	}
	if got[0].Phone == nil || *got[0].Phone != phone || !got[0].IsOpen || !got[0].CreatedAt.Equal(created) {
		t.Fatalf("fields not round-tripped: %+v", got[0])
	}

	all, err := s.Place.ListNear(ctx, center, 1000, nil)
	if err != nil {
		t.Fatalf("ListNear: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 got %d", len(all))
	}
}

func TestPlace_DuplicateID_UniqueViolation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p := &domain.Place{ID: uuid.New(), Name: "x", Type: domain.PlaceOther, CreatedAt: time.Now()}
	if err := s.Place.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Place.Create(context.Background(), p); !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation got %v", err)
	}
}

func TestPlace_BadType_InvalidInput(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Place.Create(context.Background(), &domain.Place{ID: uuid.New(), Name: "x", Type: "casino", CreatedAt: time.Now()})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestIncident_RoundTrip_SkipsResolved(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	reporter := uuid.New()
	desc := "pickpocket"
	open := &domain.IncidentReport{
		ID: uuid.New(), ReporterID: &reporter, IncidentType: domain.IncidentTheft,
		Coordinate: north(center, 50), Description: &desc, Severity: 4,
		Status: domain.IncidentReported, ReportedAt: time.Now().UTC(),
	}
	now := time.Now().UTC()
	resolved := &domain.IncidentReport{
		ID: uuid.New(), IncidentType: domain.IncidentFraud, Coordinate: north(center, 80),
		Severity: 2, Status: domain.IncidentResolved, ReportedAt: now, ResolvedAt: &now,
	}
	for _, i := range []*domain.IncidentReport{open, resolved} {
		if err := s.Incident.Create(ctx, i); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := s.Incident.ListNear(ctx, center, 1000)
	if err != nil {
		t.Fatalf("ListNear: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 incident got %d", len(got))
	}
	if got[0].ReporterID == nil || *got[0].ReporterID != reporter {
		t.Fatalf("reporter lost: %+v", got[0])
	}
	if got[0].Description == nil || *got[0].Description != desc || got[0].Severity != 4 {
		t.Fatalf("fields lost: %+v", got[0])
	}
}

func TestZone_ListActiveNear_UnionContainment(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	mk := func(meters, radius float64, active bool) *domain.SafetyZone {
		return &domain.SafetyZone{
			ID: uuid.New(), Name: "z", ZoneType: domain.ZoneCaution, Coordinate: north(center, meters),
			RadiusMeters: radius, RiskLevel: 3, Active: active, CreatedAt: time.Now(),
		}
	}
	wide := mk(3000, 5000, true)
	nearby := mk(500, 50, true)
	apart := mk(3000, 100, true)
	inactive := mk(100, 100, false)

	for _, z := range []*domain.SafetyZone{wide, nearby, apart, inactive} {
		if err := s.Zone.Create(ctx, z); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := s.Zone.ListActiveNear(ctx, center, 1000)
	if err != nil {
		t.Fatalf("ListActiveNear: %v", err)
	}
	ids := map[uuid.UUID]bool{}
	for _, z := range got {
		ids[z.ID] = true
	}
	if len(got) != 2 || !ids[wide.ID] || !ids[nearby.ID] {
		t.Fatalf("unexpected zones %+v", got)
	}
}

func TestLocation_CountsWithinWindow(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Location.now = func() time.Time { return fixed }

	u1, u2 := uuid.New(), uuid.New()
	rows := []domain.UserLocation{
		{ID: uuid.New(), UserID: u1, Address: "a", RecordedAt: fixed.Add(-5 * time.Minute)},
		{ID: uuid.New(), UserID: u1, Address: "a", IsEmergency: true, RecordedAt: fixed.Add(-10 * time.Minute)},
		{ID: uuid.New(), UserID: u2, Address: "b", RecordedAt: fixed.Add(-30 * time.Minute)},
		{ID: uuid.New(), UserID: u2, Address: "b", IsEmergency: true, RecordedAt: fixed.Add(-2 * time.Hour)},
	}
	for i := range rows {
		if err := s.Location.Save(ctx, &rows[i]); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	users, err := s.Location.CountUniqueUsers(ctx, 60)
	if err != nil || users != 2 {
		t.Fatalf("expected 2 users got %d err=%v", users, err)
	}
	users, err = s.Location.CountUniqueUsers(ctx, 15)
	if err != nil || users != 1 {
		t.Fatalf("expected 1 user got %d err=%v", users, err)
	}
	emergencies, err := s.Location.CountEmergencies(ctx, 60)
	if err != nil || emergencies != 1 {
		t.Fatalf("expected 1 emergency got %d err=%v", emergencies, err)
	}
	if _, err := s.Location.CountUniqueUsers(ctx, 0); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestLocation_Save_RejectsAnonymous(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Location.Save(context.Background(), &domain.UserLocation{ID: uuid.New()})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestContact_ListByUser_PrimaryFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	user := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rel := "sibling"
	secondary := &domain.EmergencyContact{ID: uuid.New(), UserID: user, Name: "Sam", Phone: "1", Relationship: &rel, CreatedAt: base}
	primary := &domain.EmergencyContact{ID: uuid.New(), UserID: user, Name: "Alex", Phone: "2", IsPrimary: true, CreatedAt: base.Add(time.Hour)}
	other := &domain.EmergencyContact{ID: uuid.New(), UserID: uuid.New(), Name: "Kim", Phone: "3", CreatedAt: base}

	for _, c := range []*domain.EmergencyContact{secondary, primary, other} {
		if err := s.Contact.Create(ctx, c); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := s.Contact.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != primary.ID || got[1].ID != secondary.ID {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[1].Relationship == nil || *got[1].Relationship != rel {
		t.Fatalf("relationship lost")
	}
}

func TestContext_Canceled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Incident.ListNear(ctx, center, 100)
	if !errors.Is(err, e.ErrCanceled) {
		t.Fatalf("expected ErrCanceled got %v", err)
	}
}
