package services

import (
	"address-book-service/internal/domain"
	"fmt"
	"math"
)

// DefaultEarthRadiusKm is the mean Earth radius.
const DefaultEarthRadiusKm = 6371.0

// DistanceCalculator computes great-circle distances with the haversine
// formula on a sphere of radius EarthRadiusKm.
//
// It is a pure value type and safe for concurrent use.
type DistanceCalculator struct {
	EarthRadiusKm float64
}

func NewDistanceCalculator(earthRadiusKm float64) (DistanceCalculator, error) {
	if math.IsNaN(earthRadiusKm) || math.IsInf(earthRadiusKm, 0) || earthRadiusKm <= 0 {
		return DistanceCalculator{}, fmt.Errorf("new distance calculator: earth radius must be positive, got %v", earthRadiusKm)
	}
	return DistanceCalculator{EarthRadiusKm: earthRadiusKm}, nil
}

// Distance returns the great-circle distance between a and b in kilometers.
// Inputs are expected to be valid coordinates.
func (dc DistanceCalculator) Distance(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lon1 := toRadians(a.Lon)
	lat2 := toRadians(b.Lat)
	lon2 := toRadians(b.Lon)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding can push h slightly outside [0, 1] for near-antipodal points,
	// which would make sqrt(1-h) NaN.
	h = math.Max(0, math.Min(1, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return c * dc.EarthRadiusKm
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
