package pollution

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Source tags where a result's data came from, so callers and tests can
// tell a real reading from a degraded one.
type Source string

const (
	// SourceOpenMeteo marks readings fetched live from the provider.
	SourceOpenMeteo Source = "open-meteo"

	// SourceCurated marks synthesized readings over the static catalog.
	SourceCurated Source = "curated-static"

	// SourceCache marks readings served from the TTL cache.
	SourceCache Source = "cache"

	// SourceFallback marks synthetic readings produced because the real
	// data path failed; Result.FallbackReason says why.
	SourceFallback Source = "synthetic-fallback"
)

// Result is the aggregator's tagged output. Points is never empty: any
// failure on the real-data path degrades to synthetic data instead of an
// error, so the UI always has something valid to render.
type Result struct {
	Points         []Point
	Source         Source
	FallbackReason string
}

// Coordinates is an explicit lat/lng query target.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Query describes one aggregation request.
type Query struct {
	Pollutant Pollutant

	// LocationName, when set, is geocoded to a point.
	LocationName string

	// Coordinates, when set, skips geocoding.
	Coordinates *Coordinates

	// Random selects the provider-free curated catalog sample.
	Random bool

	// Count bounds random/sampled modes (clamped to [MinCount, MaxCount]).
	Count int
}

const (
	// MinCount and MaxCount bound the sample size of random-mode queries.
	MinCount = 5
	MaxCount = 60

	// DefaultCount is used when a random-mode query gives no count.
	DefaultCount = 25

	// fallbackCount is the synthetic point count when a single-location
	// fetch degrades.
	fallbackCount = 10
)

// ClampCount normalizes a requested sample count.
func ClampCount(n int) int {
	if n == 0 {
		return DefaultCount
	}
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// ServiceConfig holds configuration for the aggregation service.
type ServiceConfig struct {
	// Provider is the upstream data source (required).
	Provider Provider

	// Logger for aggregation operations.
	Logger zerolog.Logger

	// Cache backs the no-location sampling path. Optional; sampling
	// degrades straight to synthetic data without it.
	Cache *Cache

	// Generator produces synthetic data. Defaults to a clock-seeded one.
	Generator *Generator

	// Metrics receives cache hit/miss counts for the sampling path.
	// Optional.
	Metrics CacheMetrics
}

// CacheMetrics counts sampling-path cache outcomes per pollutant.
type CacheMetrics interface {
	RecordCacheHit(pollutant string)
	RecordCacheMiss(pollutant string)
}

// Service is the aggregation error boundary: it orchestrates geocoding,
// observation fetch, nearest-time resolution and AQI derivation, and
// degrades to the synthetic generator on any failure. Nothing below it
// escapes to the HTTP layer.
type Service struct {
	provider  Provider
	logger    zerolog.Logger
	cache     *Cache
	generator *Generator
	metrics   CacheMetrics
	now       func() time.Time
}

// NewService creates a new aggregation service.
func NewService(cfg ServiceConfig) *Service {
	generator := cfg.Generator
	if generator == nil {
		generator = NewGenerator(nil)
	}
	return &Service{
		provider:  cfg.Provider,
		logger:    cfg.Logger,
		cache:     cfg.Cache,
		generator: generator,
		metrics:   cfg.Metrics,
		now:       time.Now,
	}
}

// Aggregate resolves a query into pollution points. It never returns an
// error: every failure path yields a tagged synthetic result instead.
func (s *Service) Aggregate(ctx context.Context, q Query) *Result {
	switch {
	case q.Random:
		return &Result{
			Points: s.generator.CuratedPoints(q.Pollutant, ClampCount(q.Count)),
			Source: SourceCurated,
		}
	case q.LocationName != "":
		return s.aggregateByName(ctx, q.Pollutant, q.LocationName)
	case q.Coordinates != nil:
		loc := Location{
			Label: fmt.Sprintf("Lat %.3f, Lon %.3f", q.Coordinates.Lat, q.Coordinates.Lng),
			Lat:   q.Coordinates.Lat,
			Lng:   q.Coordinates.Lng,
		}
		return s.aggregateAt(ctx, q.Pollutant, loc)
	default:
		return s.sample(q.Pollutant, ClampCount(q.Count))
	}
}

// aggregateByName geocodes the name and fetches a reading at the result.
func (s *Service) aggregateByName(ctx context.Context, pollutant Pollutant, name string) *Result {
	place, err := s.provider.Geocode(ctx, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", name).Msg("geocoding failed, serving synthetic data")
		return s.fallback(pollutant, fmt.Sprintf("geocode %q: %v", name, err))
	}
	return s.aggregateAt(ctx, pollutant, Location{Label: place.Name, Lat: place.Lat, Lng: place.Lng})
}

// aggregateAt fetches one reading and wraps it as a single-point result.
func (s *Service) aggregateAt(ctx context.Context, pollutant Pollutant, loc Location) *Result {
	point, err := s.FetchPoint(ctx, loc, pollutant)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("location", loc.Label).
			Msg("observation fetch failed, serving synthetic data")
		return s.fallback(pollutant, fmt.Sprintf("fetch %s: %v", loc.Label, err))
	}

	if s.cache != nil {
		s.cache.Put(point)
	}

	return &Result{
		Points: []Point{point},
		Source: SourceOpenMeteo,
	}
}

// FetchPoint fetches the observation series for one location and reduces
// it to a normalized reading: nearest-in-time sample, pollutant value per
// the provider-wins AQI rule. For AQI queries the provider's directly
// measured current value beats any hourly sample. Implements PointFetcher
// for the batch coordinator.
func (s *Service) FetchPoint(ctx context.Context, loc Location, pollutant Pollutant) (Point, error) {
	series, err := s.provider.FetchObservations(ctx, loc.Lat, loc.Lng)
	if err != nil {
		return Point{}, err
	}

	var value float64
	var ok bool
	if pollutant == PollutantAQI && series.CurrentUSAQI != nil {
		value, ok = *series.CurrentUSAQI, true
	} else {
		idx, err := NearestIndex(series.Times, s.now().UTC())
		if err != nil {
			return Point{}, err
		}
		value, ok = series.Sample(idx).Value(pollutant)
	}
	if !ok {
		return Point{}, fmt.Errorf("%w: no %s value at nearest sample", ErrNoObservations, pollutant)
	}
	if value < 0 {
		// Providers occasionally emit negative concentrations; treat as
		// unusable rather than propagating an invariant violation.
		s.logger.Error().
			Float64("value", value).
			Str("pollutant", string(pollutant)).
			Str("location", loc.Label).
			Msg("negative concentration from provider")
		return Point{}, fmt.Errorf("%w: negative %s reading", ErrNoObservations, pollutant)
	}

	return Point{
		Lat:           loc.Lat,
		Lng:           loc.Lng,
		Value:         value,
		PollutantType: pollutant,
		Location:      loc.Label,
		Timestamp:     s.now().UTC(),
	}, nil
}

// sample serves the no-location path from the TTL cache when it holds
// enough fresh readings, synthetic data otherwise.
func (s *Service) sample(pollutant Pollutant, count int) *Result {
	if s.cache != nil {
		fresh := s.cache.Fresh(pollutant)
		if len(fresh) >= count {
			if s.metrics != nil {
				s.metrics.RecordCacheHit(string(pollutant))
			}
			s.generator.Shuffle(fresh)
			return &Result{
				Points: fresh[:count],
				Source: SourceCache,
			}
		}
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(string(pollutant))
	}
	return s.fallback(pollutant, "insufficient cached readings")
}

func (s *Service) fallback(pollutant Pollutant, reason string) *Result {
	return &Result{
		Points:         s.generator.MockPoints(pollutant, fallbackCount),
		Source:         SourceFallback,
		FallbackReason: reason,
	}
}
