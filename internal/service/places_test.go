package service_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/golang/mock/gomock"

	"safeTrip/internal/domain"
	"safeTrip/internal/service"
	mock_service "safeTrip/internal/service/mocks"
	"safeTrip/pkg/e"
)

func TestPlaceIndex_Query_OrderedByDistanceThenID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	center := domain.Coordinate{Latitude: 10, Longitude: 10}
	repo := mock_service.NewMockPlaceRepository(ctrl)

	candidates := []domain.Place{
		{ID: idN(3), Name: "far", Type: domain.PlaceHotel, Coordinate: northOf(center, 900)},
		{ID: idN(2), Name: "tie-b", Type: domain.PlaceHotel, Coordinate: northOf(center, 100)},
		{ID: idN(1), Name: "tie-a", Type: domain.PlaceHotel, Coordinate: northOf(center, 100)},
		{ID: idN(4), Name: "outside", Type: domain.PlaceHotel, Coordinate: northOf(center, 1500)},
	}
	repo.EXPECT().
		ListNear(gomock.Any(), center, 1000.0, gomock.Nil()).
		Return(candidates, nil).
		Times(1)

	idx := service.NewPlaceIndex(repo, newTestLogger())

	seq, err := idx.Query(context.Background(), domain.PlaceQuery{Center: center, RadiusMeters: 1000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := slices.Collect(seq)

	if len(got) != 3 {
		t.Fatalf("expected 3 places got %d", len(got))
	}
	wantOrder := []string{"tie-a", "tie-b", "far"}
	for i, p := range got {
		if p.Name != wantOrder[i] {
			t.Fatalf("position %d: expected %s got %s", i, wantOrder[i], p.Name)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].DistanceMeters < got[i-1].DistanceMeters {
			t.Fatalf("distances not ascending: %v", got)
		}
	}

	again := slices.Collect(seq)
	if len(again) != len(got) || again[0].ID != got[0].ID {
		t.Fatalf("sequence not restartable")
	}
}

func TestPlaceIndex_Query_TypeFilter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	center := domain.Coordinate{Latitude: 0, Longitude: 0}
	hospital := domain.PlaceHospital
	repo := mock_service.NewMockPlaceRepository(ctrl)

	repo.EXPECT().
		ListNear(gomock.Any(), center, 5000.0, &hospital).
		Return([]domain.Place{
			{ID: idN(1), Type: domain.PlacePolice, Coordinate: northOf(center, 10)},
			{ID: idN(2), Type: domain.PlaceHospital, Coordinate: northOf(center, 20)},
		}, nil).
		Times(1)

	idx := service.NewPlaceIndex(repo, newTestLogger())

	seq, err := idx.Query(context.Background(), domain.PlaceQuery{Center: center, RadiusMeters: 5000, Type: &hospital})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := slices.Collect(seq)
	if len(got) != 1 || got[0].ID != idN(2) {
		t.Fatalf("expected only hospital, got %+v", got)
	}
}

func TestPlaceIndex_Query_InvalidArea(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		q     domain.PlaceQuery
		field string
	}{
		{"zero_radius", domain.PlaceQuery{RadiusMeters: 0}, "radius"},
		{"negative_radius", domain.PlaceQuery{RadiusMeters: -5}, "radius"},
		{"radius_too_large", domain.PlaceQuery{RadiusMeters: 50001}, "radius"},
		{"bad_latitude", domain.PlaceQuery{Center: domain.Coordinate{Latitude: 91}, RadiusMeters: 10}, "latitude"},
		{"bad_longitude", domain.PlaceQuery{Center: domain.Coordinate{Longitude: -181}, RadiusMeters: 10}, "longitude"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockPlaceRepository(ctrl)
			idx := service.NewPlaceIndex(repo, newTestLogger())

			_, err := idx.Query(context.Background(), c.q)
			var ve *e.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError got %v", err)
			}
			if ve.Field != c.field {
				t.Fatalf("expected field %s got %s", c.field, ve.Field)
			}
		})
	}
}

func TestPlaceIndex_Query_RepoErrorWrapped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockPlaceRepository(ctrl)
	repo.EXPECT().ListNear(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, e.ErrDependency).
		Times(1)

	idx := service.NewPlaceIndex(repo, newTestLogger())
	_, err := idx.Query(context.Background(), domain.PlaceQuery{RadiusMeters: 100})
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("expected ErrDependency got %v", err)
	}
}

func TestPlaceIndex_Add_Defaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockPlaceRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	idx := service.NewPlaceIndex(repo, newTestLogger())

	got, err := idx.Add(context.Background(), domain.PlaceDraft{
		Name:      "  Cafe  ",
		Type:      domain.PlaceRestaurant,
		Latitude:  f64ptr(1),
		Longitude: f64ptr(2),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Cafe" {
		t.Fatalf("expected trimmed name got %q", got.Name)
	}
	if !got.IsOpen || got.Verified || got.Rating != 0 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected generated id")
	}
}

func TestPlaceIndex_Add_ExplicitClosed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockPlaceRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	closed := false
	idx := service.NewPlaceIndex(repo, newTestLogger())
	got, err := idx.Add(context.Background(), domain.PlaceDraft{
		Name: "Night Market", Type: domain.PlaceOther, Latitude: f64ptr(0), Longitude: f64ptr(0), IsOpen: &closed,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.IsOpen {
		t.Fatalf("expected isOpen=false")
	}
}

func TestPlaceIndex_Add_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		draft domain.PlaceDraft
		field string
	}{
		{"missing_name", domain.PlaceDraft{Name: "   ", Type: domain.PlaceHotel, Latitude: f64ptr(1), Longitude: f64ptr(1)}, "name"},
		{"missing_type", domain.PlaceDraft{Name: "x", Latitude: f64ptr(1), Longitude: f64ptr(1)}, "type"},
		{"missing_latitude", domain.PlaceDraft{Name: "x", Type: domain.PlaceHotel, Longitude: f64ptr(1)}, "latitude"},
		{"longitude_out_of_range", domain.PlaceDraft{Name: "x", Type: domain.PlaceHotel, Latitude: f64ptr(1), Longitude: f64ptr(200)}, "longitude"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockPlaceRepository(ctrl)
			idx := service.NewPlaceIndex(repo, newTestLogger())

			_, err := idx.Add(context.Background(), c.draft)
			var ve *e.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError got %v", err)
			}
			if ve.Field != c.field {
				t.Fatalf("expected field %s got %s", c.field, ve.Field)
			}
		})
	}
}

func TestPlaceIndex_CityHospitalScenario(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var stored []domain.Place
	repo := mock_service.NewMockPlaceRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Place) error {
			stored = append(stored, *p)
			return nil
		}).
		Times(2)
	repo.EXPECT().ListNear(gomock.Any(), gomock.Any(), 1000.0, gomock.Any()).
		DoAndReturn(func(context.Context, domain.Coordinate, float64, *domain.PlaceType) ([]domain.Place, error) {
			return stored, nil
		}).
		Times(1)

	idx := service.NewPlaceIndex(repo, newTestLogger())
	ctx := context.Background()

	far := northOf(domain.Coordinate{Latitude: 28.6140, Longitude: 77.2095}, 700)
	if _, err := idx.Add(ctx, domain.PlaceDraft{Name: "Far Clinic", Type: domain.PlaceHospital, Latitude: &far.Latitude, Longitude: &far.Longitude}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := idx.Add(ctx, domain.PlaceDraft{Name: "City Hospital", Type: domain.PlaceHospital, Latitude: f64ptr(28.6139), Longitude: f64ptr(77.2090)}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	seq, err := idx.Query(ctx, domain.PlaceQuery{Center: domain.Coordinate{Latitude: 28.6140, Longitude: 77.2095}, RadiusMeters: 1000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := slices.Collect(seq)
	if len(got) != 2 {
		t.Fatalf("expected 2 places got %d", len(got))
	}
	if got[0].Name != "City Hospital" || got[0].DistanceMeters >= 100 {
		t.Fatalf("expected City Hospital first within 100m, got %+v", got[0])
	}
	if got[1].DistanceMeters <= 500 {
		t.Fatalf("expected second place beyond 500m, got %.1f", got[1].DistanceMeters)
	}
}
