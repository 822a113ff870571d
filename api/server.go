/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/projects/*       Projects, staff, rosters, reports
  /api/staff/*          Staff default changes (freezing paths)
  /api/entries/*        Direct entry operations
  /api/shift-types/*    Shift code catalog
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}/cutoff", h.UpdateCutoff)
			r.Get("/{id}/staff", h.ListStaff)
			r.Post("/{id}/staff", h.CreateStaff)
			r.Post("/{id}/positions/wage", h.ApplyPositionWage)

			// Roster routes (period-scoped)
			r.Route("/{id}/rosters/{year}/{month}", func(r chi.Router) {
				r.Get("/", h.GetRoster)
				r.Put("/entries", h.UpsertEntry)
				r.Post("/batch", h.BatchUpsert)
				r.Post("/import", h.ImportReplace)
				r.Get("/report", h.MonthlyReport)
			})
		})

		// Staff default changes (these freeze closed months)
		r.Route("/staff", func(r chi.Router) {
			r.Post("/{id}/default-shift", h.ApplyDefaultShift)
			r.Post("/{id}/weekly-off", h.ApplyWeeklyOff)
		})

		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Shift type catalog
		r.Route("/shift-types", func(r chi.Router) {
			r.Get("/", h.ListShiftTypes)
			r.Post("/", h.CreateShiftType)
			r.Delete("/{code}", h.DeleteShiftType)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
