package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestAddressInputNormalizeAndValidate(t *testing.T) {
	in := AddressInput{
		Street:     "  1600 Amphitheatre Pkwy ",
		City:       " Mountain View",
		State:      strPtr("   "),
		Country:    "USA  ",
		PostalCode: strPtr(" 94043 "),
		Latitude:   floatPtr(37.422),
		Longitude:  floatPtr(-122.084),
	}.Normalize()

	if in.Street != "1600 Amphitheatre Pkwy" {
		t.Fatalf("street = %q", in.Street)
	}
	if in.State != nil {
		t.Fatalf("blank state should become nil, got %q", *in.State)
	}
	if in.PostalCode == nil || *in.PostalCode != "94043" {
		t.Fatalf("postal code = %v", in.PostalCode)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddressInputValidateViolations(t *testing.T) {
	in := AddressInput{
		Street:     "   ",
		City:       strings.Repeat("x", 101),
		Country:    "Chile",
		PostalCode: strPtr(strings.Repeat("9", 21)),
		Latitude:   floatPtr(91),
		Longitude:  floatPtr(math.NaN()),
	}.Normalize()

	err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	want := Violations{
		"street":      "required",
		"city":        "too_long",
		"postal_code": "too_long",
		"latitude":    "out_of_range",
		"longitude":   "out_of_range",
	}
	if len(ve.Violations) != len(want) {
		t.Fatalf("violations = %v, want %v", ve.Violations, want)
	}
	for f, reason := range want {
		if ve.Violations[f] != reason {
			t.Errorf("violation %s = %q, want %q", f, ve.Violations[f], reason)
		}
	}
}

func TestAddressInputRequiresCoordinates(t *testing.T) {
	in := AddressInput{Street: "1 Main St", City: "Springfield", Country: "USA"}.Normalize()

	err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Violations["latitude"] != "required" || ve.Violations["longitude"] != "required" {
		t.Fatalf("violations = %v, want latitude and longitude required", ve.Violations)
	}
	if len(ve.Violations) != 2 {
		t.Fatalf("unexpected extra violations: %v", ve.Violations)
	}

	in.Latitude = floatPtr(0)
	in.Longitude = floatPtr(0)
	if err := in.Validate(); err != nil {
		t.Fatalf("explicit (0,0) must be accepted: %v", err)
	}
	if got := in.Location(); got != (Coordinates{}) {
		t.Fatalf("location = %+v", got)
	}
}

func TestAddressPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	a := Address{
		ID:         7,
		Street:     "Old St",
		City:       "Lima",
		State:      strPtr("Lima"),
		Country:    "Peru",
		PostalCode: strPtr("15001"),
		Location:   Coordinates{Lat: -12.04, Lon: -77.03},
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	lat := -12.10
	p := AddressPatch{
		Street:     strPtr("  New St "),
		State:      strPtr(" "),
		Latitude:   &lat,
		PostalCode: nil,
	}.Normalize()

	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := p.Apply(a)
	if got.Street != "New St" {
		t.Errorf("street = %q", got.Street)
	}
	if got.State != nil {
		t.Errorf("state should be cleared, got %q", *got.State)
	}
	if got.PostalCode == nil || *got.PostalCode != "15001" {
		t.Errorf("postal code should be untouched, got %v", got.PostalCode)
	}
	if got.Location != (Coordinates{Lat: -12.10, Lon: -77.03}) {
		t.Errorf("location = %+v", got.Location)
	}
	if a.Street != "Old St" {
		t.Errorf("Apply mutated its input")
	}
}

func TestAddressPatchRejectsBlankRequiredField(t *testing.T) {
	err := AddressPatch{City: strPtr("  ")}.Normalize().Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Violations["city"] != "required" {
		t.Fatalf("expected city required violation, got %v", err)
	}
}

func TestCoordinatesValidate(t *testing.T) {
	cases := []struct {
		c  Coordinates
		ok bool
	}{
		{Coordinates{Lat: 0, Lon: 0}, true},
		{Coordinates{Lat: 90, Lon: 180}, true},
		{Coordinates{Lat: -90, Lon: -180}, true},
		{Coordinates{Lat: 90.0001, Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: -180.5}, false},
		{Coordinates{Lat: math.NaN(), Lon: 0}, false},
	}

	for _, tc := range cases {
		err := tc.c.Validate()
		if tc.ok && err != nil {
			t.Errorf("%+v: unexpected error %v", tc.c, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%+v: want ErrInvalidCoordinate, got %v", tc.c, err)
		}
	}
}
