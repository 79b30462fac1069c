package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyType string

const (
	EmergencyMedical EmergencyType = "medical"
	EmergencyPolice  EmergencyType = "police"
	EmergencyFire    EmergencyType = "fire"
	EmergencyGeneral EmergencyType = "general"
)

const DispatchStatusDispatched = "dispatched"

type EmergencyRequest struct {
	UserID        string        `json:"-"`
	Latitude      *float64      `json:"latitude" validate:"required,lat"`
	Longitude     *float64      `json:"longitude" validate:"required,lng"`
	EmergencyType EmergencyType `json:"emergencyType" validate:"required,oneof=medical police fire general"`
	Description   string        `json:"description,omitempty" validate:"max=2000"`
	Severity      int           `json:"severity" validate:"min=0,max=5"`
}

func (r EmergencyRequest) Coordinate() Coordinate { return coordinateOf(r.Latitude, r.Longitude) }

type EmergencyResponse struct {
	RequestID        string        `json:"requestId"`
	Status           string        `json:"status"`
	EstimatedArrival string        `json:"estimatedArrival"`
	NearestServices  []NearbyPlace `json:"nearestServices"`
	EmergencyNumber  string        `json:"emergencyNumber"`
}

type EmergencyContact struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship *string   `json:"relationship,omitempty"`
	IsPrimary    bool      `json:"isPrimary"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ContactAlert is handed to the downstream contact notifier.
type ContactAlert struct {
	RequestID     string        `json:"requestId"`
	UserID        string        `json:"userId"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	EmergencyType EmergencyType `json:"emergencyType"`
	Severity      int           `json:"severity"`
	Contacts      int           `json:"contacts"`
	CreatedAt     time.Time     `json:"createdAt"`
}
