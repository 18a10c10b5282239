package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/charity-donations/internal/api"
	"github.com/baharkarakas/charity-donations/internal/auth"
	"github.com/baharkarakas/charity-donations/internal/checkout"
	"github.com/baharkarakas/charity-donations/internal/config"
	"github.com/baharkarakas/charity-donations/internal/db"
	"github.com/baharkarakas/charity-donations/internal/logger"
	"github.com/baharkarakas/charity-donations/internal/mailer"
	"github.com/baharkarakas/charity-donations/internal/metrics"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/payment"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/baharkarakas/charity-donations/internal/repository/fallback"
	"github.com/baharkarakas/charity-donations/internal/repository/memory"
	"github.com/baharkarakas/charity-donations/internal/repository/postgres"
	"github.com/baharkarakas/charity-donations/internal/services"
	"github.com/baharkarakas/charity-donations/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, closeLog := logger.New(cfg)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("exit", "err", err)
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	var primary repository.Backend
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, 10)
		if err != nil {
			return fmt.Errorf("db pool: %w", err)
		}
		defer pool.Close()
		primary = postgres.NewRepositories(pool)
	} else {
		log.Warn("DATABASE_URL not set, donations are kept in memory only")
	}
	store := fallback.New(primary, memory.New(models.DefaultStats()), log)

	var monitor *db.Monitor
	if pool != nil {
		monitor = db.NewMonitor(pool, store, cfg.DBPingInterval, log)
		monitor.OnConnect(func(ctx context.Context) error {
			if cfg.Migrate {
				if err := db.RunMigrations(ctx, pool); err != nil {
					return fmt.Errorf("migrations: %w", err)
				}
			}
			seeded, err := primary.SeedStats(ctx, models.DefaultStats())
			if err != nil {
				return fmt.Errorf("seed stats: %w", err)
			}
			if seeded {
				log.Info("impact stats seeded")
			}
			return nil
		})
	}

	tm, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}
	pw, err := auth.NewAdminPassword(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
	}
	if !pw.Enabled() {
		log.Warn("no admin password configured, admin login is disabled")
	}

	var proc payment.Processor
	if cfg.StripeSecretKey != "" {
		proc = payment.NewStripe(cfg.StripeSecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, card donations are recorded without a charge")
	}

	mail, err := mailer.New(cfg.SMTPHost, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, log)
	if err != nil {
		return err
	}
	wp := worker.NewPool(2, 256)
	defer wp.Stop()

	donations := services.NewDonationService(store, proc, services.CheckoutConfig{
		Links: checkout.Links{
			Currency:          cfg.Currency,
			PayPalBusinessID:  cfg.PayPalBusinessID,
			PayPalItemName:    cfg.PayPalItemName,
			StripePaymentLink: cfg.StripePaymentLink,
			SiteURL:           cfg.SiteURL,
		},
		StripePublishableKey: cfg.StripePublishableKey,
	}, log)

	r := api.NewRouter(api.Deps{
		Cfg:        cfg,
		Donations:  donations,
		Stats:      services.NewStatsService(store, log),
		Newsletter: services.NewNewsletterService(store, mail, wp, log),
		Tokens:     tm,
		Password:   pw,
		Storage:    store,
		Log:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if monitor != nil {
		g.Go(func() error { return monitor.Run(gctx) })
	}
	return g.Wait()
}
