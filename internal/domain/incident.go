package domain

import (
	"time"

	"github.com/google/uuid"
)

type IncidentType string

const (
	IncidentTheft      IncidentType = "theft"
	IncidentAssault    IncidentType = "assault"
	IncidentFraud      IncidentType = "fraud"
	IncidentHarassment IncidentType = "harassment"
	IncidentAccident   IncidentType = "accident"
	IncidentMedical    IncidentType = "medical"
	IncidentOther      IncidentType = "other"
)

type IncidentStatus string

const (
	IncidentReported IncidentStatus = "reported"
	IncidentResolved IncidentStatus = "resolved"
)

type IncidentReport struct {
	ID           uuid.UUID    `json:"id"`
	ReporterID   *uuid.UUID   `json:"reporterId,omitempty"`
	IncidentType IncidentType `json:"incidentType"`
	Coordinate
	Description *string        `json:"description,omitempty"`
	Severity    int            `json:"severity"`
	Status      IncidentStatus `json:"status"`
	ReportedAt  time.Time      `json:"reportedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
}

// Resolved reports whether the incident stopped counting towards area risk.
func (i IncidentReport) Resolved() bool {
	return i.Status == IncidentResolved
}

type ReportIncidentRequest struct {
	ReporterID   string       `json:"-"`
	Latitude     *float64     `json:"latitude" validate:"required,lat"`
	Longitude    *float64     `json:"longitude" validate:"required,lng"`
	IncidentType IncidentType `json:"incidentType" validate:"required,oneof=theft assault fraud harassment accident medical other"`
	Description  string       `json:"description,omitempty" validate:"max=2000"`
	Severity     int          `json:"severity" validate:"min=1,max=5"`
}

func (r ReportIncidentRequest) Coordinate() Coordinate { return coordinateOf(r.Latitude, r.Longitude) }
