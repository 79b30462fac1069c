package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserLocation struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Coordinate
	Address        string    `json:"address"`
	AccuracyMeters *float64  `json:"accuracyMeters,omitempty"`
	IsEmergency    bool      `json:"isEmergency"`
	RecordedAt     time.Time `json:"recordedAt"`
}

type RecordLocationRequest struct {
	UserID      string   `json:"-"`
	Latitude    *float64 `json:"latitude" validate:"required,lat"`
	Longitude   *float64 `json:"longitude" validate:"required,lng"`
	Accuracy    *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`
	IsEmergency bool     `json:"isEmergency,omitempty"`
}

func (r RecordLocationRequest) Coordinate() Coordinate { return coordinateOf(r.Latitude, r.Longitude) }

type RecordLocationResult struct {
	Location UserLocation      `json:"location"`
	Safety   *SafetyAssessment `json:"safety"`
	Address  string            `json:"address"`
}
