package routers

import (
	"github.com/go-chi/chi/v5"

	"mockmate/interview/internal/handlers"
	"mockmate/interview/internal/middleware"
)

func UploadRoutes(router chi.Router, uploadHandler *handlers.UploadHandler, jwtSecret string) {
	router.Route("/api/uploads", func(r chi.Router) {
		r.Use(middleware.Authenticator(jwtSecret))
		r.Post("/resume", uploadHandler.ResumeHandler)
	})
}
