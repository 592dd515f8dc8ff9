package dto

// NearbyRequest uses pointers so a missing field can be told apart from zero.
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  *float64 `json:"radius_km"`
}
