// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	timeout       time.Duration
}

// NewRouter creates a router. authMiddleware may be nil, leaving the reload
// endpoint open; that is only accepted outside production by config
// validation.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authMiddleware *auth.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	if authMiddleware != nil {
		authMiddleware.SetDenyFunc(WriteError)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		auth:          authMiddleware,
		timeout:       handler.config.Server.Timeout,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			if router.timeout > 0 {
				r.Use(chimiddleware.Timeout(router.timeout))
			}

			r.Get("/movies", router.handler.Movies)
			r.Get("/movies/stats", router.handler.MovieStatsByTitle)

			r.Get("/recommendations", router.handler.Recommendations)
			r.Get("/recommendations/content", router.handler.ContentRecommendations)
			r.Get("/recommendations/collaborative", router.handler.CollaborativeRecommendations)

			r.Get("/catalog/status", router.handler.CatalogStatusHandler)
		})

		// Reloads carry their own timeout (recommend.reload_timeout).
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitReload))
			if router.auth != nil {
				r.Use(router.auth.RequireAdmin)
			}
			r.Post("/catalog/reload", router.handler.CatalogReload)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
