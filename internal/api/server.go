// Package api exposes the calculators over a small JSON HTTP API.
//
// Routes:
//
//	GET  /api/health
//	GET  /api/calculators
//	GET  /api/calculators/{name}
//	POST /api/calculators/{name}/evaluate
//	POST /api/calculators/{name}/compare
//
// Evaluation is pure; the server keeps no state between requests.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router
type Options struct {
	AllowedOrigins []string
	// RequestLog enables chi's request logger
	RequestLog bool
}

// NewRouter creates a router with all routes configured
func NewRouter(h *Handler, opts Options) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Route("/calculators", func(r chi.Router) {
			r.Get("/", h.ListCalculators)
			r.Get("/{name}", h.GetCalculator)
			r.Post("/{name}/evaluate", h.Evaluate)
			r.Post("/{name}/compare", h.Compare)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", nil)
	})

	return r
}
