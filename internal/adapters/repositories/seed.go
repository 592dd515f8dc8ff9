package repositories

import (
	"address-book-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
)

type AddressSeed struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      *string  `json:"state"`
	Country    string   `json:"country"`
	PostalCode *string  `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// LoadSeedFile reads a JSON array of addresses and validates every entry.
func LoadSeedFile(jsonPath string) ([]domain.AddressInput, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed addresses: read %q: %w", jsonPath, err)
	}

	var data []AddressSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed addresses: parse json: %w", err)
	}

	out := make([]domain.AddressInput, 0, len(data))
	for i, item := range data {
		in := domain.AddressInput{
			Street:     item.Street,
			City:       item.City,
			State:      item.State,
			Country:    item.Country,
			PostalCode: item.PostalCode,
			Latitude:   item.Latitude,
			Longitude:  item.Longitude,
		}.Normalize()

		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("seed addresses: item at index %d: %w", i+1, err)
		}
		out = append(out, in)
	}

	return out, nil
}
