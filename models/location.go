package models

// District is one entry in the static district directory used for
// coordinate lookups and state listings.
type District struct {
	Code      string  `json:"district_code"`
	Name      string  `json:"district_name"`
	State     string  `json:"state_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DetectedDistrict is the result of resolving GPS coordinates to a
// district.
type DetectedDistrict struct {
	District     string  `json:"district"`
	State        string  `json:"state"`
	DistrictCode string  `json:"district_code"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
}
