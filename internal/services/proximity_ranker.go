package services

import (
	"address-book-service/internal/domain"
	"cmp"
	"math"
	"slices"
)

// Rank annotates each address with its distance from ref, rounded to two
// decimals, and orders the result by ascending distance.
//
// The sort is stable so equal rounded distances keep their input order and
// repeated queries over the same candidates return the same sequence.
func Rank(dc DistanceCalculator, filtered []domain.Address, ref domain.Coordinates) []domain.NearbyAddress {
	out := make([]domain.NearbyAddress, 0, len(filtered))
	for _, a := range filtered {
		out = append(out, domain.NearbyAddress{
			Address:    a,
			DistanceKm: roundTo2(dc.Distance(ref, a.Location)),
		})
	}

	slices.SortStableFunc(out, func(x, y domain.NearbyAddress) int {
		return cmp.Compare(x.DistanceKm, y.DistanceKm)
	})

	return out
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
