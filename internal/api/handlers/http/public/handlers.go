package public

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"safeTrip/internal/auth"
	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
	"safeTrip/pkg/validator"
)

const (
	DefaultPlacesRadiusMeters = 5000.0
	PlacesSafetyRadiusMeters  = 1000.0
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type PlaceService interface {
	Query(ctx context.Context, q domain.PlaceQuery) (iter.Seq[domain.NearbyPlace], error)
	Add(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error)
}

type SafetyService interface {
	Assess(ctx context.Context, center domain.Coordinate, radiusMeters float64) (*domain.SafetyAssessment, error)
}

type LocationService interface {
	RecordLocation(ctx context.Context, req domain.RecordLocationRequest) (*domain.RecordLocationResult, error)
}

type EmergencyService interface {
	Dispatch(ctx context.Context, req domain.EmergencyRequest) (*domain.EmergencyResponse, error)
}

type IncidentService interface {
	Report(ctx context.Context, req domain.ReportIncidentRequest) (*domain.IncidentReport, error)
}

type ContactService interface {
	ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error)
}

type Handler struct {
	logger    *slog.Logger
	Places    PlaceService
	Safety    SafetyService
	Locations LocationService
	Emergency EmergencyService
	Incidents IncidentService
	Contacts  ContactService
}

func NewHandler(
	logger *slog.Logger,
	places PlaceService,
	safety SafetyService,
	locations LocationService,
	emergency EmergencyService,
	incidents IncidentService,
	contacts ContactService,
) *Handler {
	return &Handler{
		logger:    logger,
		Places:    places,
		Safety:    safety,
		Locations: locations,
		Emergency: emergency,
		Incidents: incidents,
		Contacts:  contacts,
	}
}

type placesQuery struct {
	Latitude  *float64 `json:"latitude" validate:"required,lat"`
	Longitude *float64 `json:"longitude" validate:"required,lng"`
	Radius    float64  `json:"radius" validate:"radius_m"`
	Type      string   `json:"type" validate:"omitempty,oneof=hospital police hotel restaurant travel guide vehicle home safety other"`
}

type placesResponse struct {
	Places   []domain.NearbyPlace     `json:"places"`
	Safety   *domain.SafetyAssessment `json:"safety"`
	Location domain.Coordinate        `json:"location"`
}

type contactsResponse struct {
	Contacts []domain.EmergencyContact `json:"contacts"`
}

// PlacesNearby serves GET /places.
func (h *Handler) PlacesNearby(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	q, err := parsePlacesQuery(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	center := domain.Coordinate{Latitude: *q.Latitude, Longitude: *q.Longitude}
	pq := domain.PlaceQuery{Center: center, RadiusMeters: q.Radius}
	if q.Type != "" {
		t := domain.PlaceType(q.Type)
		pq.Type = &t
	}

	seq, err := h.Places.Query(r.Context(), pq)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	places := slices.Collect(seq)
	if places == nil {
		places = []domain.NearbyPlace{}
	}

	safety, err := h.Safety.Assess(r.Context(), center, PlacesSafetyRadiusMeters)
	if err != nil {
		l.Warn("safety assessment unavailable", slog.Any("error", err))
		safety = nil
	}

	l.Debug("places nearby", slog.Int("count", len(places)), slog.Float64("radius_m", q.Radius))
	h.writeJSON(w, http.StatusOK, placesResponse{Places: places, Safety: safety, Location: center})
}

func parsePlacesQuery(r *http.Request) (placesQuery, error) {
	v := r.URL.Query()
	q := placesQuery{Radius: DefaultPlacesRadiusMeters, Type: v.Get("type")}

	var err error
	if q.Latitude, err = parseFloatPtr(v.Get("latitude"), "latitude"); err != nil {
		return q, err
	}
	if q.Longitude, err = parseFloatPtr(v.Get("longitude"), "longitude"); err != nil {
		return q, err
	}
	if s := v.Get("radius"); s != "" {
		radius, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, e.Invalid("radius", "must be a number")
		}
		q.Radius = radius
	}

	return q, validator.ValidateStruct(q)
}

func parseFloatPtr(s, field string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, e.Invalid(field, "must be a number")
	}
	return &f, nil
}

// PlaceCreate serves POST /places.
func (h *Handler) PlaceCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.PlaceDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		h.badJSON(w, r, err)
		return
	}

	place, err := h.Places.Add(r.Context(), draft)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log(r).Info("place created", slog.String("id", place.ID.String()))
	h.writeJSON(w, http.StatusCreated, place)
}

// LocationRecord serves POST /locations.
func (h *Handler) LocationRecord(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badJSON(w, r, err)
		return
	}
	req.UserID = auth.UserID(r.Context())

	res, err := h.Locations.RecordLocation(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, res)
}

// EmergencyDispatch serves POST /emergency. Anonymous callers are served too.
func (h *Handler) EmergencyDispatch(w http.ResponseWriter, r *http.Request) {
	var req domain.EmergencyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badJSON(w, r, err)
		return
	}
	req.UserID = auth.UserID(r.Context())

	res, err := h.Emergency.Dispatch(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log(r).Info("emergency dispatched",
		slog.String("request_id", res.RequestID),
		slog.String("type", string(req.EmergencyType)),
		slog.Bool("identified", req.UserID != ""))
	h.writeJSON(w, http.StatusOK, res)
}

// IncidentReport serves POST /incidents.
func (h *Handler) IncidentReport(w http.ResponseWriter, r *http.Request) {
	var req domain.ReportIncidentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badJSON(w, r, err)
		return
	}
	req.ReporterID = auth.UserID(r.Context())

	inc, err := h.Incidents.Report(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, inc)
}

// EmergencyContacts serves GET /emergency-contacts.
func (h *Handler) EmergencyContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.ListContacts(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}

	h.writeJSON(w, http.StatusOK, contactsResponse{Contacts: contacts})
}
