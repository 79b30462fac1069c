package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlaceType string

const (
	PlaceHospital   PlaceType = "hospital"
	PlacePolice     PlaceType = "police"
	PlaceHotel      PlaceType = "hotel"
	PlaceRestaurant PlaceType = "restaurant"
	PlaceTravel     PlaceType = "travel"
	PlaceGuide      PlaceType = "guide"
	PlaceVehicle    PlaceType = "vehicle"
	PlaceHome       PlaceType = "home"
	PlaceSafety     PlaceType = "safety"
	PlaceOther      PlaceType = "other"
)

func (t PlaceType) Valid() bool {
	switch t {
	case PlaceHospital, PlacePolice, PlaceHotel, PlaceRestaurant, PlaceTravel,
		PlaceGuide, PlaceVehicle, PlaceHome, PlaceSafety, PlaceOther:
		return true
	}
	return false
}

type Place struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type PlaceType `json:"type"`
	Coordinate
	Address   string    `json:"address"`
	Phone     *string   `json:"phone,omitempty"`
	Rating    float64   `json:"rating"`
	IsOpen    bool      `json:"isOpen"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// NearbyPlace is a place together with its distance from a query center.
type NearbyPlace struct {
	Place
	DistanceMeters float64 `json:"distanceMeters"`
}

// PlaceDraft is a user submission. Pointer fields distinguish "absent" from zero.
type PlaceDraft struct {
	Name      string    `json:"name" validate:"required,max=200"`
	Type      PlaceType `json:"type" validate:"required,oneof=hospital police hotel restaurant travel guide vehicle home safety other"`
	Latitude  *float64  `json:"latitude" validate:"required,lat"`
	Longitude *float64  `json:"longitude" validate:"required,lng"`
	Address   string    `json:"address,omitempty" validate:"max=500"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,max=32"`
	IsOpen    *bool     `json:"isOpen,omitempty"`
}

func (d PlaceDraft) Coordinate() Coordinate { return coordinateOf(d.Latitude, d.Longitude) }

type PlaceQuery struct {
	Center       Coordinate
	RadiusMeters float64
	Type         *PlaceType
}
