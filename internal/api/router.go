package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/charity-donations/internal/api/handlers"
	"github.com/baharkarakas/charity-donations/internal/auth"
	"github.com/baharkarakas/charity-donations/internal/config"
	"github.com/baharkarakas/charity-donations/internal/metrics"
	"github.com/baharkarakas/charity-donations/internal/middleware"
	"github.com/baharkarakas/charity-donations/internal/services"
)

type Deps struct {
	Cfg        config.Config
	Donations  *services.DonationService
	Stats      *services.StatsService
	Newsletter *services.NewsletterService
	Tokens     *auth.TokenManager
	Password   *auth.AdminPassword
	Storage    handlers.StorageReporter
	Log        *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	pub := &handlers.PublicHandler{Svc: d.Stats, Storage: d.Storage, Log: d.Log}
	don := &handlers.DonationHandler{Donations: d.Donations, Log: d.Log}
	news := &handlers.NewsletterHandler{Newsletter: d.Newsletter, Log: d.Log}
	admin := &handlers.AdminHandler{
		Password:  d.Password,
		TM:        d.Tokens,
		Stats:     d.Stats,
		Donations: d.Donations,
		Log:       d.Log,
	}

	// health & metrics
	r.Get("/health", pub.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", pub.Stats)
		r.Get("/donors", pub.Donors)
		r.Post("/donate", don.Donate)
		r.Post("/create-payment-intent", don.PaymentIntent)
		r.Post("/newsletter", news.Subscribe)

		r.Post("/admin/login", admin.Login)
		// auth wraps the whole subrouter so it runs before method dispatch
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(d.Tokens))
			r.Get("/history", admin.History)
			r.Post("/virtual-terminal", admin.VirtualTerminal)
		})
	})

	return r
}
