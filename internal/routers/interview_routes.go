package routers

import (
	"github.com/go-chi/chi/v5"

	"mockmate/interview/internal/handlers"
	"mockmate/interview/internal/middleware"
	"mockmate/interview/internal/models"
)

// InterviewRoutes mounts the interview session endpoints. Every route
// requires a valid bearer token; ownership is enforced per record.
func InterviewRoutes(router chi.Router, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/interviews", func(r chi.Router) {
		r.Use(middleware.Authenticator(jwtSecret))

		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.With(middleware.ValidateRequest[*models.SendMessageRequest]()).Post("/{id}/message", interviewHandler.SendMessageHandler)
		r.Post("/{id}/end", interviewHandler.EndHandler)
		r.Get("/{id}/feedback", interviewHandler.GetFeedbackHandler)
	})
}
