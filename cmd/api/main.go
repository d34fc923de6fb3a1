// Package main provides the entrypoint for the AirLens API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/airlens/airlens/internal/api"
	"github.com/airlens/airlens/internal/api/middleware"
	"github.com/airlens/airlens/internal/pollution"
	"github.com/airlens/airlens/internal/provider/openmeteo"
	"github.com/airlens/airlens/internal/provider/resilience"
	"github.com/airlens/airlens/internal/telemetry"
	"github.com/airlens/airlens/internal/weather"
	"github.com/airlens/airlens/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airlens-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AirLens API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Provider health registry backs the /api/status report.
	providers := resilience.NewRegistry()

	// Open-Meteo serves both pollution observations and weather forecasts.
	client := openmeteo.NewClient(openmeteo.ClientConfig{
		Health:  providers,
		Metrics: providerMetrics,
	})
	log.Info().Str("provider", client.Name()).Msg("provider client initialized")

	// Reading cache backs no-location sampling and the cache warmer.
	cache := pollution.NewCache(pollution.CacheConfig{})

	pollutionService := pollution.NewService(pollution.ServiceConfig{
		Provider: client,
		Logger:   log,
		Cache:    cache,
		Metrics:  providerMetrics,
	})
	log.Info().Msg("pollution service initialized")

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: client,
		Logger:   log,
	})
	log.Info().Msg("weather service initialized")

	// Background cache warmer (enabled by default; CACHE_WARMER_ENABLED=false
	// to disable).
	warmerCtx, stopWarmer := context.WithCancel(ctx)
	defer stopWarmer()

	if os.Getenv("CACHE_WARMER_ENABLED") != "false" {
		coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
			Fetcher: pollutionService,
			Logger:  log,
		})

		warmer := worker.NewWarmer(worker.WarmerConfig{
			Fetcher:  coordinator,
			Cache:    cache,
			Logger:   log,
			Interval: warmerInterval(log),
		})
		go warmer.Run(warmerCtx)
	} else {
		log.Info().Msg("cache warmer disabled")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		PollutionService: pollutionService,
		WeatherService:   weatherService,
		Providers:        providers,
		Cache:            cache,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopWarmer()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// warmerInterval reads CACHE_WARMER_INTERVAL (minutes) from the
// environment, falling back to the worker default.
func warmerInterval(log zerolog.Logger) time.Duration {
	raw := os.Getenv("CACHE_WARMER_INTERVAL")
	if raw == "" {
		return worker.DefaultWarmInterval
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		log.Warn().Str("value", raw).Msg("invalid CACHE_WARMER_INTERVAL, using default")
		return worker.DefaultWarmInterval
	}
	return time.Duration(minutes) * time.Minute
}
