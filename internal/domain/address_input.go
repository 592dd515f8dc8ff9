package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	maxStreetLen     = 255
	maxCityLen       = 100
	maxStateLen      = 100
	maxCountryLen    = 100
	maxPostalCodeLen = 20
)

// AddressInput carries the client-supplied fields of a new address.
type AddressInput struct {
	Street     string
	City       string
	State      *string
	Country    string
	PostalCode *string
	// Coordinates are required; nil means the client omitted them.
	Latitude  *float64
	Longitude *float64
}

// Normalize trims every string field and turns blank optional fields into nil.
func (in AddressInput) Normalize() AddressInput {
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.State = trimOptional(in.State)
	in.PostalCode = trimOptional(in.PostalCode)
	return in
}

// Validate checks a normalized input.
func (in AddressInput) Validate() error {
	v := Violations{}
	requiredText("street", in.Street, maxStreetLen, v)
	requiredText("city", in.City, maxCityLen, v)
	requiredText("country", in.Country, maxCountryLen, v)
	optionalText("state", in.State, maxStateLen, v)
	optionalText("postal_code", in.PostalCode, maxPostalCodeLen, v)
	requiredFloat("latitude", in.Latitude, -90, 90, v)
	requiredFloat("longitude", in.Longitude, -180, 180, v)

	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// AddressPatch holds a partial update; nil fields are left untouched.
// State and PostalCode may be cleared by sending an empty string.
type AddressPatch struct {
	Street     *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64
}

func (p AddressPatch) Normalize() AddressPatch {
	p.Street = trimPtr(p.Street)
	p.City = trimPtr(p.City)
	p.Country = trimPtr(p.Country)
	p.State = trimPtr(p.State)
	p.PostalCode = trimPtr(p.PostalCode)
	return p
}

func (p AddressPatch) Validate() error {
	v := Violations{}
	if p.Street != nil {
		requiredText("street", *p.Street, maxStreetLen, v)
	}
	if p.City != nil {
		requiredText("city", *p.City, maxCityLen, v)
	}
	if p.Country != nil {
		requiredText("country", *p.Country, maxCountryLen, v)
	}
	optionalText("state", p.State, maxStateLen, v)
	optionalText("postal_code", p.PostalCode, maxPostalCodeLen, v)
	if p.Latitude != nil {
		rangeFloat("latitude", *p.Latitude, -90, 90, v)
	}
	if p.Longitude != nil {
		rangeFloat("longitude", *p.Longitude, -180, 180, v)
	}

	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// Apply returns a copy of a with the patch applied. UpdatedAt is left to the caller.
func (p AddressPatch) Apply(a Address) Address {
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.State != nil {
		a.State = emptyToNil(*p.State)
	}
	if p.PostalCode != nil {
		a.PostalCode = emptyToNil(*p.PostalCode)
	}
	if p.Latitude != nil {
		a.Location.Lat = *p.Latitude
	}
	if p.Longitude != nil {
		a.Location.Lon = *p.Longitude
	}
	return a
}

func requiredText(field, val string, maxLen int, v Violations) {
	if val == "" {
		v[field] = "required"
		return
	}
	if utf8.RuneCountInString(val) > maxLen {
		v[field] = "too_long"
	}
}

func optionalText(field string, val *string, maxLen int, v Violations) {
	if val != nil && utf8.RuneCountInString(*val) > maxLen {
		v[field] = "too_long"
	}
}

func rangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	// NaN fails both comparisons, so test the accepted range instead.
	if !(val >= minVal && val <= maxVal) {
		v[field] = "out_of_range"
	}
}

func requiredFloat(field string, val *float64, minVal, maxVal float64, v Violations) {
	if val == nil {
		v[field] = "required"
		return
	}
	rangeFloat(field, *val, minVal, maxVal, v)
}

// Location returns the coordinates of a validated input.
func (in AddressInput) Location() Coordinates {
	var c Coordinates
	if in.Latitude != nil {
		c.Lat = *in.Latitude
	}
	if in.Longitude != nil {
		c.Lon = *in.Longitude
	}
	return c
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return emptyToNil(strings.TrimSpace(*s))
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
