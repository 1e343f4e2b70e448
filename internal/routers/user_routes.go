package routers

import (
	"github.com/go-chi/chi/v5"

	"mockmate/interview/internal/handlers"
	"mockmate/interview/internal/middleware"
	"mockmate/interview/internal/models"
)

func UserRoutes(router chi.Router, authHandler *handlers.AuthHandler, jwtSecret string) {
	router.Route("/api/users", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.With(middleware.Authenticator(jwtSecret)).Get("/me", authHandler.MeHandler)
	})
}
