package main

import (
	"log/slog"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/northpeak-digital/agency-api/internal/config"
	"github.com/northpeak-digital/agency-api/internal/infra/http/handlers"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
)

type routes struct {
	Health    *handlers.HealthHandler
	Leads     *handlers.LeadHandler
	Auth      *handlers.AuthHandler
	Proposals *handlers.ProposalHandler
	Checkout  *handlers.CheckoutHandler
	Settings  *handlers.SettingsHandler
	AdminLead *handlers.AdminLeadHandler
	Keywords  *handlers.KeywordHandler
	Telegram  *handlers.TelegramHandler
	Sessions  middleware.SessionParser
	Limiter   *middleware.RateLimiter
}

func newRouter(cfg *config.Config, log *slog.Logger, h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhooks/telegram", h.Telegram.Handle)

	r.Route("/api", func(r chi.Router) {
		r.With(h.Limiter.Handler).Post("/leads", h.Leads.Create)
		r.Get("/proposals/{slug}", h.Proposals.GetBySlug)
		r.Post("/proposals/{slug}/viewed", h.Proposals.MarkViewed)
		r.Get("/addons", h.Settings.ActiveAddons)
		r.Post("/checkout", h.Checkout.Handle)

		r.Route("/admin", func(r chi.Router) {
			r.With(h.Limiter.Handler).Post("/auth/request-code", h.Auth.RequestCode)
			r.With(h.Limiter.Handler).Post("/auth/verify", h.Auth.Verify)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(h.Sessions, log))

				r.Get("/leads", h.AdminLead.List)
				r.Get("/leads/export", h.AdminLead.Export)
				r.Post("/leads/{id}/status", h.AdminLead.UpdateStatus)
				r.Post("/leads/{id}/lost", h.AdminLead.MarkLost)

				r.Get("/proposals", h.Proposals.List)
				r.Post("/proposals", h.Proposals.Create)
				r.Post("/proposals/{id}/send", h.Proposals.Send)

				r.Post("/keywords/research", h.Keywords.Research)

				r.Get("/addons", h.Settings.ListAddons)
				r.Put("/addons", h.Settings.SaveAddons)
				r.Get("/templates", h.Settings.ListTemplates)
				r.Put("/templates", h.Settings.SaveTemplates)
			})
		})
	})

	return r
}
