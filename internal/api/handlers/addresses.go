package handlers

import (
	"address-book-service/internal/api/dto"
	"address-book-service/internal/domain"
	"address-book-service/internal/services"
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// AddressManager is the CRUD surface the handlers depend on.
type AddressManager interface {
	Create(ctx context.Context, in domain.AddressInput) (domain.Address, error)
	Get(ctx context.Context, id int64) (domain.Address, error)
	List(ctx context.Context, skip, limit int) ([]domain.Address, error)
	Update(ctx context.Context, id int64, p domain.AddressPatch) (domain.Address, error)
	Delete(ctx context.Context, id int64) error
}

// AddressHandler exposes address CRUD endpoints.
type AddressHandler struct {
	Svc AddressManager
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.Svc.Create(r.Context(), domain.AddressInput{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		writeServiceError(w, r, "create address", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toAddressResponse(a))
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	v := domain.Violations{}
	skip := queryInt(r, "skip", 0, v)
	limit := queryInt(r, "limit", services.DefaultListLimit, v)
	if !v.Empty() {
		writeValidationError(w, r, v)
		return
	}

	addrs, err := h.Svc.List(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, "list addresses", err)
		return
	}

	res := make([]dto.AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, toAddressResponse(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get address", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toAddressResponse(a))
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.AddressPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := domain.Violations{}
	patch := domain.AddressPatch{
		Street:     patchString(req.Street),
		City:       patchString(req.City),
		State:      patchString(req.State),
		Country:    patchString(req.Country),
		PostalCode: patchString(req.PostalCode),
		Latitude:   patchFloat(v, "latitude", req.Latitude),
		Longitude:  patchFloat(v, "longitude", req.Longitude),
	}
	if !v.Empty() {
		writeValidationError(w, r, v)
		return
	}

	a, err := h.Svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, "update address", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toAddressResponse(a))
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete address", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID reads the {id} route variable. The route pattern only admits digits,
// so a parse failure means the value overflows int64 and cannot exist.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, "address not found")
		return 0, false
	}
	return id, true
}

// patchString maps an explicit null to the empty string, which clears an
// optional field and fails validation for a required one.
func patchString(o dto.Optional[string]) *string {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}

// Coordinates cannot be cleared, so an explicit null is a violation.
func patchFloat(v domain.Violations, field string, o dto.Optional[float64]) *float64 {
	if o.Set && o.Value == nil {
		v[field] = "required"
	}
	return o.Value
}

func queryInt(r *http.Request, key string, fallback int, v domain.Violations) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v[key] = "not_an_integer"
		return fallback
	}
	return n
}

func toAddressResponse(a domain.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		Latitude:   a.Location.Lat,
		Longitude:  a.Location.Lon,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
