// Package router sets up all HTTP routes and middleware chains for the
// taxonomy API. Reads are open; writes require the admin API key.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"taxonomy/internal/handlers"
	"taxonomy/internal/metrics"
	"taxonomy/internal/middleware"
)

// requestTimeout bounds the handling time of a single API request.
const requestTimeout = 30 * time.Second

// Option configures optional parts of the router.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
}

// WithMetrics instruments every request and serves m at GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. apiKeyHash is the bcrypt hash guarding write
// routes; empty disables the check.
func New(api *handlers.API, apiKeyHash string, opts ...Option) chi.Router {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	if o.metrics != nil {
		r.Use(middleware.Instrument(o.metrics))
	}
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics.Handler())
	}

	requireKey := middleware.RequireAPIKey(apiKeyHash)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/fields", api.ListFields)

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", api.ListSets)
			r.With(requireKey).Post("/", api.CreateSet)

			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", api.GetSet)
				r.Get("/categories", api.ListSetCategories)

				r.Group(func(r chi.Router) {
					r.Use(requireKey)
					r.Put("/editable", api.SetEditable)
					r.Delete("/", api.DeleteSet)
					r.Post("/categories", api.CreateCategory)
				})
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.FilterCategories)
			r.With(requireKey).Delete("/{id}", api.DeleteCategory)
		})

		r.Route("/entities/{type}/{id}", func(r chi.Router) {
			r.With(requireKey).Delete("/", api.DeleteEntity)

			r.Route("/{field}", func(r chi.Router) {
				r.Get("/", api.GetField)
				r.Get("/selector", api.Selector)
				r.Get("/has", api.HasCategory)
				r.Get("/full", api.IsFull)

				r.Group(func(r chi.Router) {
					r.Use(requireKey)
					r.Post("/", api.AddToField)
					r.Put("/", api.ReplaceField)
					r.Delete("/", api.ClearField)
					r.Delete("/{categoryID}", api.RemoveFromField)
				})
			})
		})

		r.Get("/tagged/{type}/{field}", api.TaggedWith)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
