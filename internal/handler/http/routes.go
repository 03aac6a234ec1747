package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version/", h.getServerVersion)
		r.Method("GET", "/metrics", promhttp.Handler())
	})

	// terminal-facing routes, JWT required
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.rateLimit, h.bodyIntegrity).Post("/api/sync/batch", h.applyBatch)
		r.Get("/api/sync/ledger", h.listLedger)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
