package service

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"

	"safeTrip/internal/domain"
	"safeTrip/internal/geo"
	"safeTrip/internal/metrics"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
)

const (
	BaselineScore  = 5.0
	MinScore       = 1.0
	MaxDisplayHits = 5
)

type safetyAggregator struct {
	zones     ZoneRepository
	incidents IncidentRepository
	logger    *slog.Logger
}

func NewSafetyAggregator(zones ZoneRepository, incidents IncidentRepository, logger *slog.Logger) SafetyAggregator {
	return &safetyAggregator{zones: zones, incidents: incidents, logger: logger}
}

type zoneHit struct {
	zone     domain.SafetyZone
	distance float64
}

type incidentHit struct {
	incident domain.IncidentReport
	distance float64
}

// Assess pools active zones and unresolved incidents around center into one score.
// Nothing is cached; every call reads the current record set.
func (s *safetyAggregator) Assess(ctx context.Context, center domain.Coordinate, radiusMeters float64) (*domain.SafetyAssessment, error) {
	const op = "service.SafetyAggregator.Assess"

	if err := validateArea(center, radiusMeters); err != nil {
		return nil, err
	}

	zones, err := s.zones.ListActiveNear(ctx, center, radiusMeters)
	if err != nil {
		s.logger.Error("zone lookup failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}
	incidents, err := s.incidents.ListNear(ctx, center, radiusMeters)
	if err != nil {
		s.logger.Error("incident lookup failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	var pool riskPool

	// A zone counts when the center is inside the zone or the zone center is inside the query circle.
	zoneHits := make([]zoneHit, 0, len(zones))
	for _, z := range zones {
		if !z.Active {
			continue
		}
		d := geo.DistanceMeters(center, z.Coordinate)
		if d > math.Max(radiusMeters, z.RadiusMeters) {
			continue
		}
		zoneHits = append(zoneHits, zoneHit{zone: z, distance: d})
		pool.add(z.RiskLevel, bucketWeight(d, radiusMeters))
	}

	incidentHits := make([]incidentHit, 0, len(incidents))
	for _, inc := range incidents {
		if inc.Resolved() {
			continue
		}
		d := geo.DistanceMeters(center, inc.Coordinate)
		if d > radiusMeters {
			continue
		}
		incidentHits = append(incidentHits, incidentHit{incident: inc, distance: d})
		pool.add(inc.Severity, bucketWeight(d, radiusMeters))
	}

	slices.SortFunc(zoneHits, func(a, b zoneHit) int {
		return byDistanceThenID(a.distance, b.distance, a.zone.ID, b.zone.ID)
	})
	slices.SortFunc(incidentHits, func(a, b incidentHit) int {
		return byDistanceThenID(a.distance, b.distance, a.incident.ID, b.incident.ID)
	})

	out := &domain.SafetyAssessment{
		OverallScore:    pool.score(),
		RiskZones:       make([]domain.RiskZoneHit, 0, min(len(zoneHits), MaxDisplayHits)),
		RecentIncidents: make([]domain.IncidentHit, 0, min(len(incidentHits), MaxDisplayHits)),
		Center:          center,
		RadiusMeters:    radiusMeters,
		Totals:          domain.AssessmentTotal{Zones: len(zoneHits), Incidents: len(incidentHits)},
	}
	for _, h := range zoneHits[:min(len(zoneHits), MaxDisplayHits)] {
		out.RiskZones = append(out.RiskZones, domain.RiskZoneHit{
			Name:           h.zone.Name,
			Type:           h.zone.ZoneType,
			RiskLevel:      h.zone.RiskLevel,
			DistanceMeters: h.distance,
		})
	}
	for _, h := range incidentHits[:min(len(incidentHits), MaxDisplayHits)] {
		out.RecentIncidents = append(out.RecentIncidents, domain.IncidentHit{
			Type:           h.incident.IncidentType,
			Severity:       h.incident.Severity,
			DistanceMeters: h.distance,
			ReportedAt:     h.incident.ReportedAt,
		})
	}

	metrics.SafetyScore.Observe(out.OverallScore)
	s.logger.Debug("safety assessed",
		slog.Float64("score", out.OverallScore),
		slog.Int("zones", len(zoneHits)),
		slog.Int("incidents", len(incidentHits)),
	)

	return out, nil
}

// bucketWeight favours signals close to the query center.
func bucketWeight(distance, radius float64) float64 {
	switch {
	case distance <= radius/3:
		return 1.0
	case distance <= 2*radius/3:
		return 0.6
	default:
		return 0.3
	}
}

// riskPool is a weighted average over risk levels and severities on the 1-5 scale.
type riskPool struct {
	sum    float64
	weight float64
}

func (p *riskPool) add(level int, w float64) {
	p.sum += float64(min(max(level, 1), 5)) * w
	p.weight += w
}

func (p riskPool) score() float64 {
	if p.weight == 0 {
		return BaselineScore
	}
	raw := p.sum / p.weight
	return math.Min(BaselineScore, math.Max(MinScore, BaselineScore-raw))
}

func byDistanceThenID(da, db float64, ia, ib uuid.UUID) int {
	if c := cmp.Compare(da, db); c != 0 {
		return c
	}
	return bytes.Compare(ia[:], ib[:])
}
