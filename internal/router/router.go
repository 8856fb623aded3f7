// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Eventfolio backend. It organizes routes into a public JSON API and an
// authenticated admin API with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventfolio/internal/handlers"
	"eventfolio/internal/middleware"
	"eventfolio/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. enquiryLimiter throttles the public enquiry
// intake per client IP.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, enquiryLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Public site API — read-only plus the enquiry intake.
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", public.Categories)
		r.Get("/events", public.Events)
		r.Get("/events/{slug}", public.EventDetail)

		r.Group(func(r chi.Router) {
			r.Use(enquiryLimiter.Middleware)
			r.Post("/enquiries", public.EnquiryCreate)
		})
	})

	// Admin API — cookie session with CSRF protection.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", auth.Me)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireTwoFA)

			r.Get("/dashboard", admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", admin.EventsList)
				r.Post("/", admin.EventCreate)
				r.Get("/{id}", admin.EventGet)
				r.Put("/{id}", admin.EventUpdate)
				r.Delete("/{id}", admin.EventDelete)
				r.Post("/{id}/media", admin.MediaUpload)
			})

			r.Route("/media", func(r chi.Router) {
				r.Put("/{id}", admin.MediaUpdate)
				r.Delete("/{id}", admin.MediaDelete)
			})

			r.Route("/enquiries", func(r chi.Router) {
				r.Get("/", admin.EnquiriesList)
				r.Post("/{id}/read", admin.EnquiryMarkRead)
				r.Post("/{id}/event", admin.EnquiryLinkEvent)

				// Destructive cleanup is admin-only.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/{id}", admin.EnquiryDelete)
				})
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
