package pollution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBatchSize is the number of locations fetched concurrently per
	// chunk.
	DefaultBatchSize = 10

	// DefaultInterBatchDelay is the pause between chunks, sized to stay
	// under upstream rate limits.
	DefaultInterBatchDelay = 1 * time.Second

	// DefaultRateLimitDelay replaces the inter-batch delay after a chunk
	// observed an upstream 429.
	DefaultRateLimitDelay = 5 * time.Second
)

// PointFetcher fetches one normalized reading for a single location.
// *Service implements it.
type PointFetcher interface {
	FetchPoint(ctx context.Context, loc Location, pollutant Pollutant) (Point, error)
}

// CoordinatorConfig holds configuration for the batch fetch coordinator.
type CoordinatorConfig struct {
	// Fetcher performs the per-location fetch (required).
	Fetcher PointFetcher

	// Logger for per-location failures.
	Logger zerolog.Logger

	// BatchSize is the chunk size (default: 10).
	BatchSize int

	// InterBatchDelay is the pause between chunks (default: 1s).
	InterBatchDelay time.Duration

	// RateLimitDelay is the pause after a chunk that hit a 429
	// (default: 5s).
	RateLimitDelay time.Duration
}

// Coordinator fans fetches out across many locations while respecting
// upstream rate limits: full concurrency inside a chunk, strict
// serialization with a delay between chunks. A failing location is dropped,
// never aborting its siblings.
type Coordinator struct {
	fetcher         PointFetcher
	logger          zerolog.Logger
	batchSize       int
	interBatchDelay time.Duration
	rateLimitDelay  time.Duration
}

// NewCoordinator creates a Coordinator with zero-value defaults applied.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	interBatchDelay := cfg.InterBatchDelay
	if interBatchDelay == 0 {
		interBatchDelay = DefaultInterBatchDelay
	}
	rateLimitDelay := cfg.RateLimitDelay
	if rateLimitDelay == 0 {
		rateLimitDelay = DefaultRateLimitDelay
	}
	return &Coordinator{
		fetcher:         cfg.Fetcher,
		logger:          cfg.Logger,
		batchSize:       batchSize,
		interBatchDelay: interBatchDelay,
		rateLimitDelay:  rateLimitDelay,
	}
}

// FetchMany fetches a reading for every location, in consecutive chunks of
// the configured batch size. The result holds only the successful fetches
// and may be shorter than the input; within a chunk result order is
// completion order, not input order. Chunk N+1 never starts before chunk
// N's delay has elapsed. Returns early with partial results when ctx is
// canceled between chunks.
func (c *Coordinator) FetchMany(ctx context.Context, locations []Location, pollutant Pollutant) []Point {
	points := make([]Point, 0, len(locations))

	for start := 0; start < len(locations); start += c.batchSize {
		end := start + c.batchSize
		if end > len(locations) {
			end = len(locations)
		}
		chunk := locations[start:end]

		chunkPoints, rateLimited := c.fetchChunk(ctx, chunk, pollutant)
		points = append(points, chunkPoints...)

		if end >= len(locations) {
			break
		}

		delay := c.interBatchDelay
		if rateLimited {
			delay = c.rateLimitDelay
			c.logger.Warn().
				Dur("delay", delay).
				Msg("upstream rate limit hit, extending inter-batch delay")
		}

		select {
		case <-ctx.Done():
			return points
		case <-time.After(delay):
		}
	}

	return points
}

// fetchChunk issues all fetches in the chunk concurrently and waits for
// every one to settle. It reports whether any fetch failed with a 429.
func (c *Coordinator) fetchChunk(ctx context.Context, chunk []Location, pollutant Pollutant) ([]Point, bool) {
	var (
		mu          sync.Mutex
		points      []Point
		rateLimited bool
		wg          sync.WaitGroup
	)

	for _, loc := range chunk {
		wg.Add(1)
		go func(loc Location) {
			defer wg.Done()

			point, err := c.fetcher.FetchPoint(ctx, loc, pollutant)
			if err != nil {
				var upstream *UpstreamError
				limited := errors.As(err, &upstream) && upstream.RateLimited()

				c.logger.Warn().
					Err(err).
					Str("location", loc.Label).
					Float64("lat", loc.Lat).
					Float64("lng", loc.Lng).
					Msg("dropping failed location from batch")

				mu.Lock()
				if limited {
					rateLimited = true
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			points = append(points, point)
			mu.Unlock()
		}(loc)
	}

	wg.Wait()
	return points, rateLimited
}
