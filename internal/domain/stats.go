package domain

type ActivityStats struct {
	UserCount      int64 `json:"userCount"`
	EmergencyCount int64 `json:"emergencyCount"`
	Minutes        int   `json:"minutes"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"min=1,max=1440"` // 1 day max
}
