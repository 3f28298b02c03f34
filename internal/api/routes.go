package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all routes. Public endpoints (tracking, quiz,
// health) sit at the root; management endpoints live under /api.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	// Public surface hit from the simulation emails.
	r.Get("/track", h.HandleTrack)
	r.Get("/quiz", h.HandleGetQuiz)
	r.Post("/quiz", h.HandleSubmitQuiz)

	// Management API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/scenarios", h.ListScenarios)
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.ListCampaigns)
			r.Post("/", h.CreateCampaign)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCampaign)
				r.Put("/", h.RenameCampaign)
				r.Delete("/", h.DeleteCampaign)
				r.Put("/status", h.UpdateCampaignStatus)
				r.Post("/clone", h.CloneCampaign)
				r.Get("/statistics", h.CampaignStatistics)
				r.Get("/preview/{rid}", h.PreviewEmail)
				r.Post("/targets/{rid}/sent", h.MarkTargetSent)
				r.Post("/targets/{rid}/bounced", h.MarkTargetBounced)
				r.Post("/targets/{rid}/failed", h.MarkTargetFailed)
			})
		})
	})

	return r
}
