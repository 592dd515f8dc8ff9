package services

import "address-book-service/internal/domain"

// FilterWithinRadius returns the candidates whose distance to ref is at most
// radiusKm. The boundary is inclusive. Input order is preserved and the
// candidates are never modified.
func FilterWithinRadius(
	dc DistanceCalculator,
	candidates []domain.Address,
	ref domain.Coordinates,
	radiusKm float64,
) []domain.Address {
	out := make([]domain.Address, 0, len(candidates))
	for _, c := range candidates {
		if dc.Distance(ref, c.Location) <= radiusKm {
			out = append(out, c)
		}
	}
	return out
}
