package domain

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func coordinateOf(lat, lng *float64) Coordinate {
	var c Coordinate
	if lat != nil {
		c.Latitude = *lat
	}
	if lng != nil {
		c.Longitude = *lng
	}
	return c
}
