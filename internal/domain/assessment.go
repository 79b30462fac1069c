package domain

import "time"

// SafetyAssessment is derived per request and never persisted.
type SafetyAssessment struct {
	OverallScore    float64         `json:"overallScore"`
	RiskZones       []RiskZoneHit   `json:"riskZones"`
	RecentIncidents []IncidentHit   `json:"recentIncidents"`
	Center          Coordinate      `json:"center"`
	RadiusMeters    float64         `json:"radiusMeters"`
	Totals          AssessmentTotal `json:"totals"`
}

type RiskZoneHit struct {
	Name           string   `json:"name"`
	Type           ZoneType `json:"type"`
	RiskLevel      int      `json:"riskLevel"`
	DistanceMeters float64  `json:"distanceMeters"`
}

type IncidentHit struct {
	Type           IncidentType `json:"type"`
	Severity       int          `json:"severity"`
	DistanceMeters float64      `json:"distanceMeters"`
	ReportedAt     time.Time    `json:"reportedAt"`
}

// AssessmentTotal holds the uncapped counts behind the display lists.
type AssessmentTotal struct {
	Zones     int `json:"zones"`
	Incidents int `json:"incidents"`
}
