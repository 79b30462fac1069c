package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
	"safeTrip/pkg/validator"

	"github.com/google/uuid"
)

const EmergencySafetyRadiusMeters = 1000.0

// FormatAddress is the placeholder reverse-geocoding label.
func FormatAddress(c domain.Coordinate) string {
	return fmt.Sprintf("Location at %.4f, %.4f", c.Latitude, c.Longitude)
}

type locationService struct {
	repo   LocationRepository
	safety SafetyAggregator
	logger *slog.Logger
	now    func() time.Time
}

func NewLocationService(repo LocationRepository, safety SafetyAggregator, logger *slog.Logger) LocationService {
	return &locationService{repo: repo, safety: safety, logger: logger, now: time.Now}
}

func (s *locationService) RecordLocation(ctx context.Context, req domain.RecordLocationRequest) (*domain.RecordLocationResult, error) {
	const op = "service.LocationService.RecordLocation"

	userID, err := identity(req.UserID)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	center := req.Coordinate()
	loc := domain.UserLocation{
		ID:             uuid.New(),
		UserID:         userID,
		Coordinate:     center,
		Address:        FormatAddress(center),
		AccuracyMeters: req.Accuracy,
		IsEmergency:    req.IsEmergency,
		RecordedAt:     s.now().UTC(),
	}

	if err := s.repo.Save(ctx, &loc); err != nil {
		s.logger.Error("location save failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	res := &domain.RecordLocationResult{Location: loc, Address: loc.Address}
	if !req.IsEmergency {
		return res, nil
	}

	// The ping is already stored; a failed assessment only drops the safety block.
	assessment, err := s.safety.Assess(ctx, center, EmergencySafetyRadiusMeters)
	if err != nil {
		s.logger.Warn("emergency safety assessment failed",
			slog.String("op", op),
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
		return res, nil
	}
	res.Safety = assessment

	s.logger.Info("emergency location recorded",
		slog.String("user_id", userID.String()),
		slog.Float64("score", assessment.OverallScore),
	)
	return res, nil
}
