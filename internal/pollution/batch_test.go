package pollution_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airlens/airlens/internal/pollution"
)

// batchFetcher records per-location fetches and fails the configured
// labels.
type batchFetcher struct {
	mu       sync.Mutex
	fetched  []string
	failWith map[string]error
	delay    time.Duration
}

func (f *batchFetcher) FetchPoint(_ context.Context, loc pollution.Location, pollutant pollution.Pollutant) (pollution.Point, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.fetched = append(f.fetched, loc.Label)
	f.mu.Unlock()

	if err, ok := f.failWith[loc.Label]; ok {
		return pollution.Point{}, err
	}
	return pollution.Point{
		Lat:           loc.Lat,
		Lng:           loc.Lng,
		Value:         42,
		PollutantType: pollutant,
		Location:      loc.Label,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func makeLocations(n int) []pollution.Location {
	locations := make([]pollution.Location, 0, n)
	for i := 0; i < n; i++ {
		locations = append(locations, pollution.Location{
			Label: fmt.Sprintf("city-%02d", i),
			Lat:   float64(i),
			Lng:   float64(-i),
		})
	}
	return locations
}

func TestCoordinator_FetchMany(t *testing.T) {
	fetcher := &batchFetcher{}
	coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		BatchSize:       10,
		InterBatchDelay: time.Millisecond,
	})

	points := coordinator.FetchMany(context.Background(), makeLocations(25), pollution.PollutantAQI)

	assert.Len(t, points, 25)
	assert.Len(t, fetcher.fetched, 25)
}

func TestCoordinator_DropsFailedLocations(t *testing.T) {
	fetcher := &batchFetcher{
		failWith: map[string]error{
			"city-03": errors.New("connection refused"),
			"city-17": pollution.ErrNoObservations,
		},
	}
	coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		BatchSize:       10,
		InterBatchDelay: time.Millisecond,
	})

	points := coordinator.FetchMany(context.Background(), makeLocations(25), pollution.PollutantAQI)

	require.Len(t, points, 23)
	for _, p := range points {
		assert.NotEqual(t, "city-03", p.Location)
		assert.NotEqual(t, "city-17", p.Location)
	}
}

func TestCoordinator_RateLimitExtendsDelay(t *testing.T) {
	fetcher := &batchFetcher{
		failWith: map[string]error{
			"city-01": &pollution.UpstreamError{StatusCode: 429},
		},
	}
	coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		BatchSize:       5,
		InterBatchDelay: time.Millisecond,
		RateLimitDelay:  150 * time.Millisecond,
	})

	start := time.Now()
	points := coordinator.FetchMany(context.Background(), makeLocations(10), pollution.PollutantAQI)
	took := time.Since(start)

	assert.Len(t, points, 9)
	assert.GreaterOrEqual(t, took, 150*time.Millisecond, "second chunk should wait out the rate limit delay")
}

func TestCoordinator_NoDelayAfterFinalChunk(t *testing.T) {
	fetcher := &batchFetcher{}
	coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		BatchSize:       10,
		InterBatchDelay: time.Minute,
	})

	done := make(chan struct{})
	go func() {
		coordinator.FetchMany(context.Background(), makeLocations(10), pollution.PollutantAQI)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("single-chunk fetch should not wait the inter-batch delay")
	}
}

func TestCoordinator_ContextCancelReturnsPartial(t *testing.T) {
	fetcher := &batchFetcher{}
	coordinator := pollution.NewCoordinator(pollution.CoordinatorConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		BatchSize:       5,
		InterBatchDelay: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())

	results := make(chan []pollution.Point, 1)
	go func() {
		results <- coordinator.FetchMany(ctx, makeLocations(15), pollution.PollutantAQI)
	}()

	// Let the first chunk complete, then cancel during the delay.
	assert.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return len(fetcher.fetched) >= 5
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case points := <-results:
		assert.Len(t, points, 5, "only the first chunk should have completed")
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancel")
	}
}

func TestCoordinator_Defaults(t *testing.T) {
	assert.Equal(t, 10, pollution.DefaultBatchSize)
	assert.Equal(t, time.Second, pollution.DefaultInterBatchDelay)
	assert.Equal(t, 5*time.Second, pollution.DefaultRateLimitDelay)
}
