package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"safeTrip/internal/domain"
	"safeTrip/internal/service"
	mock_service "safeTrip/internal/service/mocks"
	"safeTrip/pkg/e"
)

var assessCenter = domain.Coordinate{Latitude: 48.8566, Longitude: 2.3522}

func newAggregator(t *testing.T, zones []domain.SafetyZone, incidents []domain.IncidentReport) service.SafetyAggregator {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	zr := mock_service.NewMockZoneRepository(ctrl)
	ir := mock_service.NewMockIncidentRepository(ctrl)
	zr.EXPECT().ListActiveNear(gomock.Any(), gomock.Any(), gomock.Any()).Return(zones, nil).AnyTimes()
	ir.EXPECT().ListNear(gomock.Any(), gomock.Any(), gomock.Any()).Return(incidents, nil).AnyTimes()

	return service.NewSafetyAggregator(zr, ir, newTestLogger())
}

func incidentAt(id byte, meters float64, severity int) domain.IncidentReport {
	return domain.IncidentReport{
		ID:           idN(id),
		IncidentType: domain.IncidentTheft,
		Coordinate:   northOf(assessCenter, meters),
		Severity:     severity,
		Status:       domain.IncidentReported,
		ReportedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func zoneAt(id byte, meters, radius float64, risk int) domain.SafetyZone {
	return domain.SafetyZone{
		ID:           idN(id),
		Name:         "zone",
		ZoneType:     domain.ZoneDanger,
		Coordinate:   northOf(assessCenter, meters),
		RadiusMeters: radius,
		RiskLevel:    risk,
		Active:       true,
	}
}

func TestSafetyAggregator_NoSignal_Baseline(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, nil, nil)

	got, err := agg.Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.OverallScore != 5 {
		t.Fatalf("expected 5 got %v", got.OverallScore)
	}
	if got.RiskZones == nil || got.RecentIncidents == nil {
		t.Fatalf("expected empty, non-nil lists")
	}
}

func TestSafetyAggregator_CloseSevereIncident(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, nil, []domain.IncidentReport{incidentAt(1, 50, 5)})

	got, err := agg.Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !(got.OverallScore < 5 && got.OverallScore >= 1) {
		t.Fatalf("score out of range: %v", got.OverallScore)
	}
	if len(got.RecentIncidents) != 1 || !near(got.RecentIncidents[0].DistanceMeters, 50, 1) {
		t.Fatalf("unexpected incidents: %+v", got.RecentIncidents)
	}
}

func TestSafetyAggregator_WeightedBuckets(t *testing.T) {
	t.Parallel()

	// severity 3 at weight 1.0 and severity 1 at weight 0.3: (3 + 0.3) / 1.3
	agg := newAggregator(t, nil, []domain.IncidentReport{
		incidentAt(1, 100, 3),
		incidentAt(2, 900, 1),
	})

	got, err := agg.Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := 5 - 3.3/1.3
	if !near(got.OverallScore, want, 1e-9) {
		t.Fatalf("expected %v got %v", want, got.OverallScore)
	}
}

func TestSafetyAggregator_MonotonicOnWorseIncident(t *testing.T) {
	t.Parallel()

	base := []domain.IncidentReport{incidentAt(1, 800, 2)}
	worse := append([]domain.IncidentReport{incidentAt(2, 100, 5)}, base...)

	before, err := newAggregator(t, nil, base).Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	after, err := newAggregator(t, nil, worse).Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if after.OverallScore > before.OverallScore {
		t.Fatalf("score increased: before=%v after=%v", before.OverallScore, after.OverallScore)
	}
}

func TestSafetyAggregator_ZoneUnionContainment(t *testing.T) {
	t.Parallel()

	zones := []domain.SafetyZone{
		zoneAt(1, 3000, 5000, 4), // center inside a wide zone
		zoneAt(2, 500, 50, 3),    // zone center inside query circle
		zoneAt(3, 3000, 100, 5),  // neither
	}

	got, err := newAggregator(t, zones, nil).Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Totals.Zones != 2 || len(got.RiskZones) != 2 {
		t.Fatalf("expected 2 zones got %+v", got.RiskZones)
	}
	if got.RiskZones[0].DistanceMeters > got.RiskZones[1].DistanceMeters {
		t.Fatalf("zones not sorted by distance: %+v", got.RiskZones)
	}
}

func TestSafetyAggregator_SkipsResolvedAndInactive(t *testing.T) {
	t.Parallel()

	resolved := incidentAt(1, 10, 5)
	resolved.Status = domain.IncidentResolved
	inactive := zoneAt(2, 10, 100, 5)
	inactive.Active = false

	got, err := newAggregator(t, []domain.SafetyZone{inactive}, []domain.IncidentReport{resolved}).
		Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.OverallScore != 5 {
		t.Fatalf("expected 5 got %v", got.OverallScore)
	}
}

func TestSafetyAggregator_DisplayCap(t *testing.T) {
	t.Parallel()

	var incidents []domain.IncidentReport
	for i := 0; i < 8; i++ {
		incidents = append(incidents, incidentAt(byte(i+1), float64(800-i*100), 2))
	}

	got, err := newAggregator(t, nil, incidents).Assess(context.Background(), assessCenter, 1000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.RecentIncidents) != service.MaxDisplayHits {
		t.Fatalf("expected %d got %d", service.MaxDisplayHits, len(got.RecentIncidents))
	}
	if got.Totals.Incidents != 8 {
		t.Fatalf("expected total 8 got %d", got.Totals.Incidents)
	}
	if got.RecentIncidents[0].DistanceMeters > 150 {
		t.Fatalf("expected nearest first, got %+v", got.RecentIncidents[0])
	}
}

func TestSafetyAggregator_ScoreAlwaysInRange(t *testing.T) {
	t.Parallel()

	for sev := -2; sev <= 9; sev++ {
		got, err := newAggregator(t, nil, []domain.IncidentReport{incidentAt(1, 10, sev)}).
			Assess(context.Background(), assessCenter, 500)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if math.IsNaN(got.OverallScore) || got.OverallScore < 1 || got.OverallScore > 5 {
			t.Fatalf("severity %d: score out of range %v", sev, got.OverallScore)
		}
	}
}

func TestSafetyAggregator_InvalidRadius(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg := service.NewSafetyAggregator(
		mock_service.NewMockZoneRepository(ctrl),
		mock_service.NewMockIncidentRepository(ctrl),
		newTestLogger(),
	)

	for _, radius := range []float64{0, -1, math.NaN(), 50001} {
		_, err := agg.Assess(context.Background(), assessCenter, radius)
		var ve *e.ValidationError
		if !errors.As(err, &ve) || ve.Field != "radius" {
			t.Fatalf("radius %v: expected radius ValidationError got %v", radius, err)
		}
	}
}

func TestSafetyAggregator_RepoError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	zr := mock_service.NewMockZoneRepository(ctrl)
	zr.EXPECT().ListActiveNear(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, e.ErrDependency).Times(1)

	agg := service.NewSafetyAggregator(zr, mock_service.NewMockIncidentRepository(ctrl), newTestLogger())
	_, err := agg.Assess(context.Background(), assessCenter, 1000)
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("expected ErrDependency got %v", err)
	}
}
