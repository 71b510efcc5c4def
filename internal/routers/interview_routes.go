package routers

import (
	"github.com/go-chi/chi/v5"

	"placementprep/interview/internal/handlers"
	"placementprep/interview/internal/middleware"
	"placementprep/interview/internal/models"
)

func InterviewRoutes(router chi.Router, interviewHandler *handlers.InterviewHandler, jwtSecret []byte) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/start", interviewHandler.StartHandler)
		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", interviewHandler.SubmitAnswerHandler)
		r.With(middleware.ValidateRequest[*models.CompleteInterviewRequest]()).Post("/complete", interviewHandler.CompleteHandler)
	})
}
