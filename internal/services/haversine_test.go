package services

import (
	"address-book-service/internal/domain"
	"math"
	"testing"

	"github.com/umahmood/haversine"
)

func mustCalc(t *testing.T, r float64) DistanceCalculator {
	t.Helper()
	dc, err := NewDistanceCalculator(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dc
}

var samplePoints = []domain.Coordinates{
	{Lat: 0, Lon: 0},
	{Lat: 40.7128, Lon: -74.0060},
	{Lat: 51.5074, Lon: -0.1278},
	{Lat: -33.8688, Lon: 151.2093},
	{Lat: 90, Lon: 0},
	{Lat: -90, Lon: 45},
	{Lat: 12.5, Lon: 180},
	{Lat: -12.5, Lon: -180},
	{Lat: 35.6762, Lon: 139.6503},
}

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	dc := mustCalc(t, DefaultEarthRadiusKm)

	for _, a := range samplePoints {
		if d := dc.Distance(a, a); math.Abs(d) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range samplePoints {
			ab := dc.Distance(a, b)
			ba := dc.Distance(b, a)
			if ab != ba {
				t.Errorf("asymmetric: d(%v,%v)=%v d(%v,%v)=%v", a, b, ab, b, a, ba)
			}
			if math.IsNaN(ab) || ab < 0 {
				t.Errorf("Distance(%v, %v) = %v, want finite non-negative", a, b, ab)
			}
		}
	}
}

func TestDistanceKnownFixtures(t *testing.T) {
	dc := mustCalc(t, DefaultEarthRadiusKm)

	quarter := dc.Distance(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 90})
	if want := math.Pi / 2 * 6371.0; math.Abs(quarter-want) > 1e-6 {
		t.Fatalf("quarter circumference = %v, want %v", quarter, want)
	}
	if math.Abs(quarter-10007.54) > 0.01 {
		t.Fatalf("quarter circumference = %v, want ~10007.54", quarter)
	}

	nyc := domain.Coordinates{Lat: 40.7128, Lon: -74.0060}
	london := domain.Coordinates{Lat: 51.5074, Lon: -0.1278}
	if d := dc.Distance(nyc, london); math.Abs(d-5570) > 5 {
		t.Fatalf("NYC-London = %v, want ~5570", d)
	}
}

func TestDistanceMatchesReferenceImplementation(t *testing.T) {
	dc := mustCalc(t, DefaultEarthRadiusKm)

	for _, a := range samplePoints {
		for _, b := range samplePoints {
			_, want := haversine.Distance(
				haversine.Coord{Lat: a.Lat, Lon: a.Lon},
				haversine.Coord{Lat: b.Lat, Lon: b.Lon},
			)
			if math.IsNaN(want) {
				continue
			}
			if got := dc.Distance(a, b); math.Abs(got-want) > 1e-6 {
				t.Errorf("Distance(%v, %v) = %v, reference %v", a, b, got, want)
			}
		}
	}
}

func TestDistanceAntipodalStaysFinite(t *testing.T) {
	dc := mustCalc(t, DefaultEarthRadiusKm)
	half := math.Pi * DefaultEarthRadiusKm

	pairs := [][2]domain.Coordinates{
		{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 180}},
		{{Lat: 45, Lon: 10}, {Lat: -45, Lon: -170}},
		{{Lat: 90, Lon: 0}, {Lat: -90, Lon: 0}},
		{{Lat: 33.3333333, Lon: -122.1111111}, {Lat: -33.3333333, Lon: 57.8888889}},
	}

	for _, p := range pairs {
		d := dc.Distance(p[0], p[1])
		if math.IsNaN(d) || math.IsInf(d, 0) {
			t.Fatalf("Distance(%v, %v) = %v", p[0], p[1], d)
		}
		if math.Abs(d-half) > 1e-3 {
			t.Errorf("Distance(%v, %v) = %v, want ~%v", p[0], p[1], d, half)
		}
	}
}

func TestDistanceUsesConfiguredRadius(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 0, Lon: 90}

	unit := mustCalc(t, 1).Distance(a, b)
	if math.Abs(unit-math.Pi/2) > 1e-12 {
		t.Fatalf("unit sphere distance = %v, want pi/2", unit)
	}

	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewDistanceCalculator(r); err == nil {
			t.Errorf("NewDistanceCalculator(%v): expected error", r)
		}
	}
}
