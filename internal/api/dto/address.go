package dto

import (
	"encoding/json"
	"time"
)

// AddressRequest uses pointers for the coordinates so an omitted field is
// reported as missing instead of decoding to 0.
type AddressRequest struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      *string  `json:"state"`
	Country    string   `json:"country"`
	PostalCode *string  `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// Optional records whether a JSON field was present at all. Set with a nil
// Value means the field was an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// AddressPatchRequest is the body of a partial update. Absent fields are left
// unchanged; null clears optional fields.
type AddressPatchRequest struct {
	Street     Optional[string]  `json:"street"`
	City       Optional[string]  `json:"city"`
	State      Optional[string]  `json:"state"`
	Country    Optional[string]  `json:"country"`
	PostalCode Optional[string]  `json:"postal_code"`
	Latitude   Optional[float64] `json:"latitude"`
	Longitude  Optional[float64] `json:"longitude"`
}

type AddressResponse struct {
	ID         int64     `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      *string   `json:"state"`
	Country    string    `json:"country"`
	PostalCode *string   `json:"postal_code"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AddressWithDistanceResponse struct {
	AddressResponse
	DistanceKm float64 `json:"distance_km"`
}
