/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/budget      Snapshot read/replace
  /api/bills/*     Bill management
  /api/paydays/*   Payday confirmation and history
  /api/forecast    Projection
  /api/health      Health grade
  /api/history/*   Period aggregation
  /api/scenarios/* Demo scenarios

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/budget", func(r chi.Router) {
			r.Get("/", h.GetBudget)
			r.Put("/", h.SetBudget)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.ListBills)
			r.Post("/", h.CreateBill)
			r.Post("/{id}/paid", h.MarkBillPaid)
			r.Delete("/{id}", h.DeleteBill)
		})

		r.Route("/paydays", func(r chi.Router) {
			r.Get("/", h.ListPaydays)
			r.Post("/confirm", h.ConfirmPayday)
		})

		r.Get("/forecast", h.GetForecast)
		r.Get("/health", h.GetHealth)

		r.Route("/history", func(r chi.Router) {
			r.Get("/periods", h.GetHistoryPeriods)
			r.Get("/latest", h.GetLatestPeriod)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
