// Package main is the entry point for the PPP case gateway server.
// It provides a REST API that reconciles the case-management backend's
// heterogeneous JSON payloads into canonical case records and derives the
// monthly financial statement for partner settlement.
//
// Architecture:
//   - The backend owns the case state machine; the gateway only interprets
//     what the backend reports
//   - Raw payloads are normalized on every fetch, never persisted or cached
//   - Monthly metrics are fetched in parallel with per-month failure
//     isolation, so a broken month never aborts the statement
//   - Financial figures are decimal-exact and summed from rows, not
//     re-derived from counts
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/backend"
	"github.com/JoaoEstellita/ppp-gateway/internal/config"
	"github.com/JoaoEstellita/ppp-gateway/internal/finance"
	"github.com/JoaoEstellita/ppp-gateway/internal/handlers"
	"github.com/JoaoEstellita/ppp-gateway/internal/middleware"
	"github.com/JoaoEstellita/ppp-gateway/internal/services"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting PPP Case Gateway",
		"port", cfg.Port,
		"env", cfg.Environment,
		"backend_url", cfg.BackendURL,
	)

	// Initialize the case-management backend client
	api, err := backend.NewClient(cfg.BackendURL, cfg.BackendToken)
	if err != nil {
		sugar.Fatalf("Failed to create backend client: %v", err)
	}

	// Redis backs the rate limiter; the gateway still serves without it
	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		sugar.Warnf("Invalid redis URL, rate limiting disabled: %v", err)
	} else {
		rdb = redis.NewClient(opts)
	}

	rates := finance.Rates{
		PartnerPerCase: cfg.PartnerRatePerCase,
		CostPerCase:    cfg.OperationalCostPerCase,
	}

	// Initialize services
	caseSvc := services.NewCaseService(api, sugar)
	metricsSvc := services.NewMetricsService(api, rates, sugar)

	// Initialize handlers
	caseHandler := handlers.NewCaseHandler(caseSvc, sugar)
	financeHandler := handlers.NewFinanceHandler(metricsSvc, sugar)
	healthHandler := handlers.NewHealthHandler(api, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(rdb, cfg.RateLimitRPM, sugar))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Case endpoints
		r.Route("/cases", func(r chi.Router) {
			r.Get("/{caseID}", caseHandler.Get)              // Canonical case record
			r.Get("/{caseID}/detail", caseHandler.GetDetail) // Full detail view
		})

		// Financial statement (partner-sensitive figures)
		r.Route("/finance", func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Get("/statement", financeHandler.Statement)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
