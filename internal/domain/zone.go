package domain

import (
	"time"

	"github.com/google/uuid"
)

type ZoneType string

const (
	ZoneCaution      ZoneType = "caution"
	ZoneDanger       ZoneType = "danger"
	ZoneSafe         ZoneType = "safe"
	ZoneVerifiedSafe ZoneType = "verified-safe"
)

type SafetyZone struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ZoneType ZoneType  `json:"zoneType"`
	Coordinate
	RadiusMeters float64    `json:"radiusMeters"`
	RiskLevel    int        `json:"riskLevel"`
	Description  *string    `json:"description,omitempty"`
	Verified     bool       `json:"verified"`
	Active       bool       `json:"active"`
	CreatedBy    *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
