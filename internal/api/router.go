// Package api provides the HTTP API for AirLens.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/airlens/airlens/internal/api/handler"
	"github.com/airlens/airlens/internal/api/middleware"
	"github.com/airlens/airlens/internal/pollution"
	"github.com/airlens/airlens/internal/provider/resilience"
	"github.com/airlens/airlens/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	PollutionService *pollution.Service
	WeatherService   *weather.Service
	Providers        *resilience.Registry
	Cache            *pollution.Cache
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "airlens-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Providers: cfg.Providers,
		Cache:     cfg.Cache,
	})
	pollutionHandler := handler.NewPollutionHandler(cfg.PollutionService)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService)

	// Rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/api", func(r chi.Router) {
		// Ops endpoints (no rate limiting; probed by orchestrators)
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)

		// Data endpoints fan out to the upstream provider, so they get the
		// stricter limit.
		r.With(expensiveRateLimit).Get("/pollution", pollutionHandler.GetPollution)
		r.With(standardRateLimit).Get("/weather", weatherHandler.GetWeather)
	})

	return r
}
