package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth())

	if s.registry != nil {
		metrics := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
		r.Group(func(r chi.Router) {
			if s.config.BearerToken != "" {
				r.Use(bearerAuth(s.config.BearerToken))
			}
			r.Method(http.MethodGet, "/metrics", metrics)
		})
	}

	return r
}
