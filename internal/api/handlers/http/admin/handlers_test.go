package admin_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/golang/mock/gomock"

	"safeTrip/internal/api/handlers/http/admin"
	mock_admin "safeTrip/internal/api/handlers/http/admin/mocks"
	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func TestAdminStats_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsSvc := mock_admin.NewMockStatsGetter(ctrl)
	h := admin.NewHandler(newTestLogger(), statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?minutes=30", nil)
	rr := httptest.NewRecorder()

	want := &domain.ActivityStats{UserCount: 42, EmergencyCount: 3, Minutes: 30}
	statsSvc.EXPECT().
		GetStats(gomock.Any(), domain.StatsRequest{Minutes: 30}).
		Return(want, nil).
		Times(1)

	h.AdminStats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.ActivityStats](t, rr)
	if got != *want {
		t.Fatalf("unexpected stats: got=%+v want=%+v", got, *want)
	}
}

func TestAdminStats_MissingMinutes_DelegatesDefault(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsSvc := mock_admin.NewMockStatsGetter(ctrl)
	h := admin.NewHandler(newTestLogger(), statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rr := httptest.NewRecorder()

	statsSvc.EXPECT().
		GetStats(gomock.Any(), domain.StatsRequest{Minutes: 0}).
		Return(&domain.ActivityStats{Minutes: 60}, nil).
		Times(1)

	h.AdminStats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if got := decodeJSON[domain.ActivityStats](t, rr); got.Minutes != 60 {
		t.Fatalf("expected minutes=60 got=%d", got.Minutes)
	}
}

func TestAdminStats_NotANumber_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsSvc := mock_admin.NewMockStatsGetter(ctrl)
	h := admin.NewHandler(newTestLogger(), statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?minutes=abc", nil)
	rr := httptest.NewRecorder()

	h.AdminStats(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
	body := decodeJSON[map[string]string](t, rr)
	if body["field"] != "minutes" {
		t.Fatalf("expected field=minutes got %v", body)
	}
}

func TestAdminStats_OutOfRange_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsSvc := mock_admin.NewMockStatsGetter(ctrl)
	h := admin.NewHandler(newTestLogger(), statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?minutes=5000", nil)
	rr := httptest.NewRecorder()

	statsSvc.EXPECT().
		GetStats(gomock.Any(), domain.StatsRequest{Minutes: 5000}).
		Return(nil, e.Invalid("minutes", "must be <= 1440")).
		Times(1)

	h.AdminStats(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
	body := decodeJSON[map[string]string](t, rr)
	if body["error"] != "invalid input" || body["reason"] != "must be <= 1440" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAdminStats_ServiceError_500(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsSvc := mock_admin.NewMockStatsGetter(ctrl)
	h := admin.NewHandler(newTestLogger(), statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?minutes=10", nil)
	rr := httptest.NewRecorder()

	statsSvc.EXPECT().
		GetStats(gomock.Any(), gomock.Any()).
		Return(nil, e.Wrap("postgres.Location.count", errors.Join(errors.New("connection refused"), e.ErrDependency))).
		Times(1)

	h.AdminStats(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d got %d", http.StatusInternalServerError, rr.Code)
	}
	body := decodeJSON[map[string]string](t, rr)
	if body["error"] != "internal error" {
		t.Fatalf("internal details leaked: %v", body)
	}
}
