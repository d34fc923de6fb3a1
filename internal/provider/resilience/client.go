package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen is returned when the circuit breaker refuses the call.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client for breaker naming and health reports.
	Name string

	// Timeout is the per-request timeout (default: 8s).
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first try
	// (default: 2).
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval (default: 200ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval (default: 2s).
	MaxInterval time.Duration

	// Breaker overrides the circuit breaker configuration. If nil,
	// DefaultBreakerConfig(Name) is used.
	Breaker *BreakerConfig
}

// Client is an HTTP client that retries transient failures with
// exponential backoff behind a circuit breaker. Only network errors and
// 5xx responses are retried; 4xx responses, including 429, are returned
// to the caller untouched so it can apply its own policy.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient HTTP client with zero-value defaults
// applied.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	breakerCfg := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](breakerCfg), //nolint:bodyclose // type param, not a response
		config:     cfg,
	}
}

// Do executes the request. 5xx responses and network errors count against
// the breaker and are retried with backoff; when retries are exhausted the
// last 5xx response is returned so the caller sees the real status code.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				// Returned as an error so the breaker counts it.
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// ServerError represents an upstream 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// BreakerState returns the circuit breaker's current state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the circuit breaker's current counts.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
