package models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"` // km
}

// Location is the sub-satellite point for one state vector.
type Location struct {
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Geolocation string       `json:"geolocation"`
	Altitude    float64      `json:"altitude"`
	Geodetic    *Coordinates `json:"geodetic,omitempty"` // WGS-84 estimate using GMST
}
