package handlers

import (
	"address-book-service/internal/api/dto"
	"address-book-service/internal/domain"
	"context"
	"math"
	"net/http"
)

type NearbySearcher interface {
	FindNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyAddress, error)
}

// NearbyHandler serves proximity searches.
type NearbyHandler struct {
	Finder NearbySearcher
}

func (h *NearbyHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.NearbyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := domain.Violations{}
	lat := requiredFloat(v, "latitude", req.Latitude)
	lon := requiredFloat(v, "longitude", req.Longitude)
	radius := requiredFloat(v, "radius_km", req.RadiusKm)
	if _, bad := v["latitude"]; !bad && (lat < -90 || lat > 90) {
		v["latitude"] = "out_of_range"
	}
	if _, bad := v["longitude"]; !bad && (lon < -180 || lon > 180) {
		v["longitude"] = "out_of_range"
	}
	if _, bad := v["radius_km"]; !bad && !(radius > 0) {
		v["radius_km"] = "must_be_positive"
	}
	if !v.Empty() {
		writeValidationError(w, r, v)
		return
	}

	results, err := h.Finder.FindNearby(r.Context(), domain.NearbyQuery{
		Reference: domain.Coordinates{Lat: lat, Lon: lon},
		RadiusKm:  radius,
	})
	if err != nil {
		writeServiceError(w, r, "find nearby", err)
		return
	}

	res := make([]dto.AddressWithDistanceResponse, 0, len(results))
	for _, n := range results {
		res = append(res, dto.AddressWithDistanceResponse{
			AddressResponse: toAddressResponse(n.Address),
			DistanceKm:      n.DistanceKm,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func requiredFloat(v domain.Violations, field string, p *float64) float64 {
	if p == nil {
		v[field] = "required"
		return 0
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		v[field] = "out_of_range"
		return 0
	}
	return *p
}
