// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storefront. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
)

// Deps are the handlers and middleware dependencies the router mounts.
type Deps struct {
	Products *handlers.Products
	Carousel *handlers.Carousel
	Auth     *handlers.Auth

	Sessions     middleware.SessionChecker
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	Metrics      *metrics.Metrics

	CORSOrigins []string

	// PublicObjects, when set, is mounted at /storage to serve the public
	// bucket of the in-memory storage driver.
	PublicObjects http.Handler
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(d.Metrics))
	r.Use(middleware.SecureHeaders)
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check and metrics, no auth.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	if d.PublicObjects != nil {
		r.Mount("/storage", http.StripPrefix("/storage", d.PublicObjects))
	}

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/products", d.Products.List)
		r.Get("/carousel", d.Carousel.List)

		// Auth endpoints. Responses depend on the cookie.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/session", d.Auth.Session)
			r.Post("/logout", d.Auth.Logout)
			r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.Login)
		})

		// Admin mutations, session required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireAdmin(d.Sessions))

			r.Post("/products", d.Products.Create)
			r.Delete("/products", d.Products.Delete)
			r.Post("/carousel", d.Carousel.Save)
			r.Delete("/carousel", d.Carousel.Delete)
		})
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
