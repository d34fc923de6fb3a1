// Package resilience wraps outbound provider calls with circuit breaking,
// retries and per-request timeouts, and tracks provider health for the
// status endpoint.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in logs and health reports.
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	// Default: 1
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	// Default: 0 (counts accumulate)
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	// Default: 30 seconds
	Timeout time.Duration

	// ReadyToTrip decides when to open the breaker. If nil,
	// DefaultReadyToTrip is used.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is invoked on every state transition.
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultBreakerConfig returns the defaults used for provider clients.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip opens the breaker once at least 5 requests have been
// seen and half of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// NewBreaker creates a circuit breaker from the given configuration.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
