package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/airlens/airlens/internal/pollution"
)

// Provider defines the upstream source for location reports.
type Provider interface {
	// Geocode resolves a place name to coordinates. Returns
	// pollution.ErrLocationNotFound when the provider has no match.
	Geocode(ctx context.Context, name string) (*pollution.Place, error)

	// FetchForecast fetches the weather forecast for a point.
	FetchForecast(ctx context.Context, lat, lng float64) (*Forecast, error)

	// FetchAirQuality fetches the air-quality payload for a point.
	FetchAirQuality(ctx context.Context, lat, lng float64) (*AirQuality, error)
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the upstream data source (required).
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long a report is cached per query (default: 10
	// minutes). Weather changes slower than the pollution overlay, so a
	// longer cache is acceptable.
	CacheTTL time.Duration
}

// Service builds combined weather and air-quality reports with a small
// per-query cache.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedReport
}

type cachedReport struct {
	report    *Report
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    make(map[string]*cachedReport),
	}
}

// LocationReport geocodes the query and assembles the combined report.
// Forecast failure is an error; air-quality failure is tolerated and
// yields a report with AirQuality nil.
func (s *Service) LocationReport(ctx context.Context, query string) (*Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	cacheKey := strings.ToLower(query)

	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.report, nil
	}
	s.mu.RUnlock()

	place, err := s.provider.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, pollution.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
		}
		s.logger.Error().Err(err).Str("query", query).Msg("geocoding failed")
		return nil, ErrProviderUnavailable
	}

	forecast, err := s.provider.FetchForecast(ctx, place.Lat, place.Lng)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("location", place.Name).
			Msg("forecast fetch failed")
		return nil, ErrProviderUnavailable
	}

	airQuality, err := s.provider.FetchAirQuality(ctx, place.Lat, place.Lng)
	if err != nil {
		// The report is still useful without the air-quality block.
		s.logger.Warn().
			Err(err).
			Str("location", place.Name).
			Msg("air quality fetch failed, serving report without it")
		airQuality = nil
	}
	if airQuality != nil {
		attachAQI(airQuality)
	}

	report := &Report{
		Location: ReportLocation{
			Name:      place.Name,
			Latitude:  place.Lat,
			Longitude: place.Lng,
		},
		Weather:    forecast,
		AirQuality: airQuality,
		Timestamp:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.cache[cacheKey] = &cachedReport{
		report:    report,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return report, nil
}

// InvalidateCache clears all cached reports.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedReport)
}

// attachAQI fills in the computed AQI fields. A provider-supplied us_aqi
// wins whenever present; otherwise the AQI is derived from the PM2.5 and
// PM10 breakpoints.
func attachAQI(aq *AirQuality) {
	if aq.Current != nil {
		aq.Current.AQI = computeAQI(aq.Current.USAQI, aq.Current.PM25, aq.Current.PM10)
	}

	if aq.Hourly != nil {
		n := len(aq.Hourly.Time)
		aqi := make([]*int, n)
		for i := 0; i < n; i++ {
			aqi[i] = computeAQI(
				seriesAt(aq.Hourly.USAQI, i),
				seriesAt(aq.Hourly.PM25, i),
				seriesAt(aq.Hourly.PM10, i),
			)
		}
		aq.Hourly.AQI = aqi
	}
}

func computeAQI(usAQI, pm25, pm10 *float64) *int {
	if usAQI != nil {
		v := int(math.Round(*usAQI))
		return &v
	}
	if aqi, ok := pollution.CombinedAQI(pm25, pm10); ok {
		return &aqi
	}
	return nil
}

func seriesAt(arr []*float64, i int) *float64 {
	if i < 0 || i >= len(arr) {
		return nil
	}
	return arr[i]
}
