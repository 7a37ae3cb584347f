package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.Http.Response(w, r, nil, "", http.StatusMethodNotAllowed)
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.Metrics)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/login", app.login)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Get("/", app.listAccounts)
				r.Get("/me", app.me)
				r.Post("/me/profiles/{profileId}/watchlist", app.addToWatchlist)
				r.Delete("/me/profiles/{profileId}/watchlist/{contentId}", app.removeFromWatchlist)
				r.Patch("/{id}/role", app.setAccountRole)
				r.Delete("/{id}", app.deleteAccount)
			})
		})
		r.Route("/content", func(r chi.Router) {
			r.Get("/", app.listContent)
			r.Post("/", app.createContent)
			r.Get("/{id}", app.getContent)
			r.Patch("/{id}", app.updateContent)
			r.Delete("/{id}", app.deleteContent)
			r.Post("/{id}/view", app.recordView)
		})
		r.Get("/admin/stats", app.getStats)
	})
	return router
}
