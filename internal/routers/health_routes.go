package routers

import (
	"github.com/go-chi/chi/v5"

	"mockmate/interview/internal/handlers"
)

func HealthRoutes(router chi.Router, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
}
