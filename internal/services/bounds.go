package services

import (
	"address-book-service/internal/domain"
	"math"
)

// Padding added to every edge of a search box so points exactly on the
// radius are never lost to rounding. Roughly 1 cm on the ground.
const boundsPaddingDeg = 1e-7

// SearchBounds returns a latitude/longitude rectangle containing every point
// within radiusKm of ref. The second result is false when the circle covers
// the whole sphere and no useful box exists.
//
// The longitude span widens to the full [-180, 180] range when the circle
// contains a pole or crosses the antimeridian, so the box stays a superset of
// the circle in every case.
func SearchBounds(dc DistanceCalculator, ref domain.Coordinates, radiusKm float64) (domain.Bounds, bool) {
	angular := radiusKm / dc.EarthRadiusKm
	if angular >= math.Pi {
		return domain.Bounds{}, false
	}

	lat := toRadians(ref.Lat)
	lon := toRadians(ref.Lon)

	minLat := lat - angular
	maxLat := lat + angular

	var minLon, maxLon float64
	if minLat > -math.Pi/2 && maxLat < math.Pi/2 {
		deltaLon := math.Asin(math.Min(1, math.Sin(angular)/math.Cos(lat)))
		minLon = lon - deltaLon
		maxLon = lon + deltaLon
		if minLon < -math.Pi || maxLon > math.Pi {
			minLon, maxLon = -math.Pi, math.Pi
		}
	} else {
		minLat = math.Max(minLat, -math.Pi/2)
		maxLat = math.Min(maxLat, math.Pi/2)
		minLon, maxLon = -math.Pi, math.Pi
	}

	return domain.Bounds{
		MinLat: math.Max(-90, toDegrees(minLat)-boundsPaddingDeg),
		MaxLat: math.Min(90, toDegrees(maxLat)+boundsPaddingDeg),
		MinLon: math.Max(-180, toDegrees(minLon)-boundsPaddingDeg),
		MaxLon: math.Min(180, toDegrees(maxLon)+boundsPaddingDeg),
	}, true
}
