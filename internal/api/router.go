package api

import (
	"address-book-service/internal/api/handlers"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(addresses handlers.AddressManager, finder handlers.NearbySearcher, corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	addrHandler := &handlers.AddressHandler{Svc: addresses}
	nearbyHandler := &handlers.NearbyHandler{Finder: finder}

	r.HandleFunc("/", handlers.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	// Registered before the {id} routes so "nearby" is never read as an id.
	v1.HandleFunc("/addresses/nearby", nearbyHandler.Search).Methods(http.MethodPost)
	v1.HandleFunc("/addresses", addrHandler.Create).Methods(http.MethodPost)
	v1.HandleFunc("/addresses", addrHandler.List).Methods(http.MethodGet)
	v1.HandleFunc("/addresses/{id:[0-9]+}", addrHandler.Get).Methods(http.MethodGet)
	v1.HandleFunc("/addresses/{id:[0-9]+}", addrHandler.Update).Methods(http.MethodPut)
	v1.HandleFunc("/addresses/{id:[0-9]+}", addrHandler.Delete).Methods(http.MethodDelete)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(corsOrigins)(r)))
}
