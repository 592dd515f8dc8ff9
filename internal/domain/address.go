package domain

import "time"

// Represents a persisted postal address with its geographic position.
// Records are owned by the store; readers treat them as immutable values.
type Address struct {
	ID         int64
	Street     string
	City       string
	State      *string
	Country    string
	PostalCode *string
	Location   Coordinates
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NearbyAddress is a query-scoped view of an Address annotated with its
// distance from the reference point. It is never persisted.
type NearbyAddress struct {
	Address    Address
	DistanceKm float64
}

// NearbyQuery pairs a reference point with a search radius in kilometers.
type NearbyQuery struct {
	Reference Coordinates
	RadiusKm  float64
}

// Bounds is a latitude/longitude rectangle in degrees.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether c lies inside b, edges included.
func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}
