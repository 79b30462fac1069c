package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"safeTrip/internal/domain"
	"safeTrip/internal/service"
	mock_service "safeTrip/internal/service/mocks"
	"safeTrip/pkg/e"
)

func TestStatsService_DefaultMinutes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockLocationRepository(ctrl)
	repo.EXPECT().CountUniqueUsers(gomock.Any(), service.DefaultStatsMinutes).Return(int64(7), nil).Times(1)
	repo.EXPECT().CountEmergencies(gomock.Any(), service.DefaultStatsMinutes).Return(int64(2), nil).Times(1)

	got, err := service.NewStatsService(repo).GetStats(context.Background(), domain.StatsRequest{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := domain.ActivityStats{UserCount: 7, EmergencyCount: 2, Minutes: 60}
	if *got != want {
		t.Fatalf("expected %+v got %+v", want, *got)
	}
}

func TestStatsService_MinutesOutOfRange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := service.NewStatsService(mock_service.NewMockLocationRepository(ctrl)).
		GetStats(context.Background(), domain.StatsRequest{Minutes: 5000})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestStatsService_ErrorPropagated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockLocationRepository(ctrl)
	repo.EXPECT().CountUniqueUsers(gomock.Any(), 15).Return(int64(0), e.ErrDeadline).Times(1)

	_, err := service.NewStatsService(repo).GetStats(context.Background(), domain.StatsRequest{Minutes: 15})
	if !errors.Is(err, e.ErrDeadline) {
		t.Fatalf("expected ErrDeadline got %v", err)
	}
}

func TestContactService_List(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockContactRepository(ctrl)
	repo.EXPECT().ListByUser(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	got, err := service.NewContactService(repo, newTestLogger()).ListContacts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list got %v", got)
	}
}

func TestContactService_Unauthenticated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := service.NewContactService(mock_service.NewMockContactRepository(ctrl), newTestLogger()).
		ListContacts(context.Background(), "")
	if !errors.Is(err, e.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated got %v", err)
	}
}
