// Package worker provides background jobs for AirLens. The cache warmer
// keeps the reading cache populated so the no-location sampling path can
// serve real data instead of synthetic fallback.
package worker

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/airlens/airlens/internal/pollution"
)

const (
	// DefaultWarmInterval is the pause between warm cycles. Shorter than
	// the cache TTL so readings are replaced before they expire.
	DefaultWarmInterval = 15 * time.Minute

	// DefaultLocationsPerCycle bounds how many catalog locations one cycle
	// fetches.
	DefaultLocationsPerCycle = 20
)

// PointFetcher fetches readings for many locations at once.
// *pollution.Coordinator implements it.
type PointFetcher interface {
	FetchMany(ctx context.Context, locations []pollution.Location, pollutant pollution.Pollutant) []pollution.Point
}

// WarmerConfig holds configuration for the cache warmer.
type WarmerConfig struct {
	// Fetcher performs the batched fetches (required).
	Fetcher PointFetcher

	// Cache receives the fetched readings (required).
	Cache *pollution.Cache

	// Logger for warm cycle logging.
	Logger zerolog.Logger

	// Interval between warm cycles (default: 15 minutes).
	Interval time.Duration

	// LocationsPerCycle is how many catalog locations each cycle fetches
	// (default: 20). The sample rotates through the catalog randomly.
	LocationsPerCycle int

	// Pollutants to warm. Defaults to the AQI overlay only.
	Pollutants []pollution.Pollutant
}

// Warmer periodically fetches readings for a random slice of the curated
// catalog and stores them in the cache.
type Warmer struct {
	fetcher           PointFetcher
	cache             *pollution.Cache
	logger            zerolog.Logger
	interval          time.Duration
	locationsPerCycle int
	pollutants        []pollution.Pollutant
	rng               *rand.Rand

	mu      sync.RWMutex
	metrics WarmerMetrics
}

// WarmerMetrics tracks warm cycle statistics.
type WarmerMetrics struct {
	Cycles        int64
	PointsFetched int64
	PointsMissed  int64
	LastCycleAt   time.Time
	LastCycleTook time.Duration
}

// NewWarmer creates a cache warmer with zero-value defaults applied.
func NewWarmer(cfg WarmerConfig) *Warmer {
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultWarmInterval
	}
	locationsPerCycle := cfg.LocationsPerCycle
	if locationsPerCycle <= 0 {
		locationsPerCycle = DefaultLocationsPerCycle
	}
	pollutants := cfg.Pollutants
	if len(pollutants) == 0 {
		pollutants = []pollution.Pollutant{pollution.PollutantAQI}
	}
	return &Warmer{
		fetcher:           cfg.Fetcher,
		cache:             cfg.Cache,
		logger:            cfg.Logger,
		interval:          interval,
		locationsPerCycle: locationsPerCycle,
		pollutants:        pollutants,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run warms the cache once immediately and then on every interval tick
// until ctx is canceled.
func (w *Warmer) Run(ctx context.Context) {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("locations_per_cycle", w.locationsPerCycle).
		Msg("cache warmer started")

	w.WarmOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("cache warmer stopped")
			return
		case <-ticker.C:
			w.WarmOnce(ctx)
		}
	}
}

// WarmOnce runs a single warm cycle: pick a random catalog slice, fetch
// readings for every configured pollutant, and cache the results.
func (w *Warmer) WarmOnce(ctx context.Context) {
	start := time.Now()
	locations := w.pickLocations()

	var fetched, missed int
	for _, pollutant := range w.pollutants {
		points := w.fetcher.FetchMany(ctx, locations, pollutant)
		for _, p := range points {
			w.cache.Put(p)
		}
		fetched += len(points)
		missed += len(locations) - len(points)

		if ctx.Err() != nil {
			break
		}
	}

	took := time.Since(start)

	w.mu.Lock()
	w.metrics.Cycles++
	w.metrics.PointsFetched += int64(fetched)
	w.metrics.PointsMissed += int64(missed)
	w.metrics.LastCycleAt = start
	w.metrics.LastCycleTook = took
	w.mu.Unlock()

	w.logger.Info().
		Int("fetched", fetched).
		Int("missed", missed).
		Int("cached", w.cache.Len()).
		Dur("took", took).
		Msg("cache warm cycle completed")
}

// Metrics returns a copy of the current warm cycle metrics.
func (w *Warmer) Metrics() WarmerMetrics {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.metrics
}

// pickLocations samples locationsPerCycle entries from the curated catalog
// without repeats.
func (w *Warmer) pickLocations() []pollution.Location {
	catalog := make([]pollution.Location, len(pollution.Catalog))
	copy(catalog, pollution.Catalog)

	w.rng.Shuffle(len(catalog), func(i, j int) {
		catalog[i], catalog[j] = catalog[j], catalog[i]
	})

	if len(catalog) > w.locationsPerCycle {
		catalog = catalog[:w.locationsPerCycle]
	}
	return catalog
}
