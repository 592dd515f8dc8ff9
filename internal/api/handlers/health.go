package handlers

import (
	"address-book-service/internal/api/dto"
	"net/http"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.RootResponse{
		Message: "Address Book API",
		Version: Version,
		DocsURL: "/api/v1",
	})
}
