package service

import (
	"context"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
	"safeTrip/pkg/validator"
)

const DefaultStatsMinutes = 60

type statsService struct {
	repo LocationRepository
}

func NewStatsService(repo LocationRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ActivityStats, error) {
	const op = "service.StatsService.GetStats"

	if req.Minutes == 0 {
		req.Minutes = DefaultStatsMinutes
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	unique, err := s.repo.CountUniqueUsers(ctx, req.Minutes)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	emergencies, err := s.repo.CountEmergencies(ctx, req.Minutes)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &domain.ActivityStats{
		UserCount:      unique,
		EmergencyCount: emergencies,
		Minutes:        req.Minutes,
	}, nil
}
