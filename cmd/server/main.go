package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/vortex/internal"
	"github.com/dukerupert/vortex/internal/api"
	"github.com/dukerupert/vortex/internal/checkout"
	"github.com/dukerupert/vortex/internal/cookie"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler/storefront"
	"github.com/dukerupert/vortex/internal/middleware"
	"github.com/dukerupert/vortex/internal/payment"
	"github.com/dukerupert/vortex/internal/router"
	"github.com/dukerupert/vortex/internal/routes"
	"github.com/dukerupert/vortex/internal/session"
	"github.com/dukerupert/vortex/internal/storage"
	"github.com/dukerupert/vortex/internal/telemetry"
	"github.com/sony/gobreaker/v2"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	businessMetrics := telemetry.NewBusinessMetrics("vortex", nil)

	// Session storage
	logger.Info("Initializing session storage...", "provider", cfg.Storage.Provider)
	st, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("session storage initialization failed: %w", err)
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	sessions := session.NewManager(st, logger, session.Config{Metrics: businessMetrics})
	go sessions.Run(ctx, time.Minute)

	// External storefront API
	client := api.NewClient(cfg.API, sessions, logger, api.WithMetrics(businessMetrics))
	logger.Info("Storefront API client initialized", "base_url", cfg.API.BaseURL)

	// Payment gateways
	registry, err := payment.NewRegistryFromConfig(cfg.Payment)
	if err != nil {
		return fmt.Errorf("payment initialization failed: %w", err)
	}
	logger.Info("Payment gateways enabled", "methods", registry.Methods())

	validator := checkout.NewValidator(registry.Accepts)
	orchestrator := checkout.New(client, checkout.NewPricing(cfg.Checkout), validator, logger,
		checkout.WithMetrics(businessMetrics),
	)

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("vortex", nil)
	cookies := cookie.NewConfig("", cfg.Session.Secure)

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	strictRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer strictRateLimiter.Stop()

	r := router.New(
		router.Recovery(logger, func(req *http.Request, v any) {
			telemetry.CaptureErrorFromContext(req.Context(), fmt.Errorf("panic: %v", v), map[string]interface{}{
				"path": req.URL.Path,
			})
		}),
		middleware.RequestID,
		middleware.WithClientIP(),
		metrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.Session.Secure)),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		defaultRateLimiter.Middleware,
		middleware.Session(middleware.SessionConfig{
			Cookie:     cookies,
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.MaxAge,
		}),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		telemetry.SentryMiddleware(),
		telemetry.SentryContextMiddleware(domain.SessionIDFromContext),
		middleware.CSRF(middleware.DefaultCSRFConfig(cookies)),
	)

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		Metrics: metrics.Handler(),
		Ready: func() error {
			if client.BreakerState() == gobreaker.StateOpen {
				return errors.New("storefront API circuit open")
			}
			return nil
		},
	})

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		ProductHandler:    storefront.NewProductHandler(client),
		ReviewHandler:     storefront.NewReviewHandler(client, validator, businessMetrics),
		CartHandler:       storefront.NewCartHandler(sessions, client, validator),
		CheckoutHandler:   storefront.NewCheckoutHandler(sessions, orchestrator, registry, businessMetrics),
		CallbackHandler:   storefront.NewCallbackHandler(sessions, registry, client, businessMetrics),
		PaymentMethods:    registry.Methods(),
		AuthHandler:       storefront.NewAuthHandler(client, validator, businessMetrics),
		NewsletterHandler: storefront.NewNewsletterHandler(client, validator, businessMetrics),
		StrictLimit:       strictRateLimiter.Middleware,
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.API.Timeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
