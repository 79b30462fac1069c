package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/internal/metrics"
	"safeTrip/pkg/e"
	"safeTrip/pkg/validator"

	"github.com/google/uuid"
)

const (
	AutoZoneMinSeverity  = 4
	AutoZoneRadiusMeters = 200.0
)

type incidentReporter struct {
	incidents IncidentRepository
	zones     ZoneRepository
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewIncidentReporter(incidents IncidentRepository, zones ZoneRepository, events EventPublisher, logger *slog.Logger) IncidentReporter {
	if events == nil {
		events = nopPublisher{}
	}
	return &incidentReporter{
		incidents: incidents,
		zones:     zones,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Report persists the incident. Severity 4 and 5 also materialize a caution zone
// around it; a failed zone write is logged and the report still succeeds.
func (s *incidentReporter) Report(ctx context.Context, req domain.ReportIncidentRequest) (*domain.IncidentReport, error) {
	const op = "service.IncidentReporter.Report"

	reporterID, err := identity(req.ReporterID)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	inc := &domain.IncidentReport{
		ID:           uuid.New(),
		ReporterID:   &reporterID,
		IncidentType: req.IncidentType,
		Coordinate:   req.Coordinate(),
		Severity:     req.Severity,
		Status:       domain.IncidentReported,
		ReportedAt:   s.now().UTC(),
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		inc.Description = &d
	}

	if err := s.incidents.Create(ctx, inc); err != nil {
		s.logger.Error("incident create failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	metrics.IncidentsReportedTotal.WithLabelValues(string(inc.IncidentType)).Inc()
	s.logger.Info("incident reported",
		slog.String("id", inc.ID.String()),
		slog.String("type", string(inc.IncidentType)),
		slog.Int("severity", inc.Severity),
	)
	publish(ctx, s.logger, s.events, "incident.reported", inc)

	if inc.Severity >= AutoZoneMinSeverity {
		s.createCautionZone(ctx, op, inc)
	}

	return inc, nil
}

func (s *incidentReporter) createCautionZone(ctx context.Context, op string, inc *domain.IncidentReport) {
	desc := fmt.Sprintf("Recent %s incident reported. Exercise caution.", inc.IncidentType)
	zone := &domain.SafetyZone{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("%s incident area", inc.IncidentType),
		ZoneType:     domain.ZoneCaution,
		Coordinate:   inc.Coordinate,
		RadiusMeters: AutoZoneRadiusMeters,
		RiskLevel:    inc.Severity,
		Description:  &desc,
		Verified:     false,
		Active:       true,
		CreatedBy:    inc.ReporterID,
		CreatedAt:    inc.ReportedAt,
	}

	if err := s.zones.Create(ctx, zone); err != nil {
		metrics.ZoneCreateFailuresTotal.Inc()
		s.logger.Warn("caution zone create failed",
			slog.String("op", op),
			slog.String("incident_id", inc.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	metrics.ZonesCreatedTotal.Inc()
	publish(ctx, s.logger, s.events, "zone.created", zone)
}
