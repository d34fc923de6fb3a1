// Package openmeteo provides a client for the Open-Meteo geocoding,
// air-quality and forecast APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/airlens/airlens/internal/pollution"
	"github.com/airlens/airlens/internal/provider/resilience"
	"github.com/airlens/airlens/internal/weather"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "open-meteo"

	// DefaultGeocodingBaseURL is the Open-Meteo geocoding API base URL.
	DefaultGeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1"

	// DefaultAirQualityBaseURL is the Open-Meteo air-quality API base URL.
	DefaultAirQualityBaseURL = "https://air-quality-api.open-meteo.com/v1"

	// DefaultForecastBaseURL is the Open-Meteo forecast API base URL.
	DefaultForecastBaseURL = "https://api.open-meteo.com/v1"
)

// observationHourlyFields are the hourly series requested for pollution
// aggregation.
const observationHourlyFields = "us_aqi,pm2_5,pm10,ozone,nitrogen_dioxide"

// reportAirQualityFields are the pollutant fields requested for the
// combined weather report.
const reportAirQualityFields = "us_aqi,pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone"

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MetricsRecorder records the outcome and latency of provider calls.
type MetricsRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// GeocodingBaseURL overrides the geocoding API base URL.
	GeocodingBaseURL string

	// AirQualityBaseURL overrides the air-quality API base URL.
	AirQualityBaseURL string

	// ForecastBaseURL overrides the forecast API base URL.
	ForecastBaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 8s).
	Timeout time.Duration

	// Health, when set, receives the provider's call outcomes and, for the
	// default resilient client, its circuit breaker for the status report.
	Health *resilience.Registry

	// Metrics, when set, records per-operation latency and errors.
	Metrics MetricsRecorder
}

// Client is an Open-Meteo API client. It implements pollution.Provider and
// weather.Provider.
type Client struct {
	geocodingBaseURL  string
	airQualityBaseURL string
	forecastBaseURL   string
	httpClient        HTTPDoer
	health            *resilience.Registry
	metrics           MetricsRecorder
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	geocodingBaseURL := cfg.GeocodingBaseURL
	if geocodingBaseURL == "" {
		geocodingBaseURL = DefaultGeocodingBaseURL
	}
	airQualityBaseURL := cfg.AirQualityBaseURL
	if airQualityBaseURL == "" {
		airQualityBaseURL = DefaultAirQualityBaseURL
	}
	forecastBaseURL := cfg.ForecastBaseURL
	if forecastBaseURL == "" {
		forecastBaseURL = DefaultForecastBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 8 * time.Second
		}
		resilient := resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		})
		if cfg.Health != nil {
			cfg.Health.Register(ProviderName, resilient)
		}
		httpClient = resilient
	}

	return &Client{
		geocodingBaseURL:  strings.TrimSuffix(geocodingBaseURL, "/"),
		airQualityBaseURL: strings.TrimSuffix(airQualityBaseURL, "/"),
		forecastBaseURL:   strings.TrimSuffix(forecastBaseURL, "/"),
		httpClient:        httpClient,
		health:            cfg.Health,
		metrics:           cfg.Metrics,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// API response types.

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type airQualityResponse struct {
	Current *struct {
		Time  string   `json:"time"`
		USAQI *float64 `json:"us_aqi"`
	} `json:"current"`
	Hourly *struct {
		Time            []string   `json:"time"`
		PM25            []*float64 `json:"pm2_5"`
		PM10            []*float64 `json:"pm10"`
		Ozone           []*float64 `json:"ozone"`
		NitrogenDioxide []*float64 `json:"nitrogen_dioxide"`
		USAQI           []*float64 `json:"us_aqi"`
	} `json:"hourly"`
}

// Geocode resolves a place name to coordinates, using the first match.
func (c *Client) Geocode(ctx context.Context, name string) (*pollution.Place, error) {
	u := fmt.Sprintf("%s/search?name=%s&count=1&language=en&format=json",
		c.geocodingBaseURL, url.QueryEscape(name))

	var result geocodeResponse
	if err := c.getJSON(ctx, "geocode", u, &result); err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, pollution.ErrLocationNotFound
	}

	first := result.Results[0]
	resolvedName := first.Name
	if resolvedName == "" {
		resolvedName = name
	}

	return &pollution.Place{
		Name: resolvedName,
		Lat:  first.Latitude,
		Lng:  first.Longitude,
	}, nil
}

// FetchObservations fetches the hourly air-quality series for a point,
// validated into the normalized series shape.
func (c *Client) FetchObservations(ctx context.Context, lat, lng float64) (*pollution.ObservationSeries, error) {
	u := fmt.Sprintf("%s/air-quality?latitude=%.6f&longitude=%.6f&hourly=%s&current=us_aqi&timezone=UTC",
		c.airQualityBaseURL, lat, lng, observationHourlyFields)

	var result airQualityResponse
	if err := c.getJSON(ctx, "observations", u, &result); err != nil {
		return nil, fmt.Errorf("fetch observations: %w", err)
	}

	if result.Hourly == nil || len(result.Hourly.Time) == 0 {
		return nil, fmt.Errorf("%w: missing hourly.time", pollution.ErrMalformedPayload)
	}

	series := &pollution.ObservationSeries{
		Times: result.Hourly.Time,
		PM25:  result.Hourly.PM25,
		PM10:  result.Hourly.PM10,
		Ozone: result.Hourly.Ozone,
		NO2:   result.Hourly.NitrogenDioxide,
		USAQI: result.Hourly.USAQI,
	}
	if result.Current != nil {
		series.CurrentUSAQI = result.Current.USAQI
	}

	return series, nil
}

// FetchForecast fetches the weather forecast for a point.
func (c *Client) FetchForecast(ctx context.Context, lat, lng float64) (*weather.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.6f", lat))
	params.Set("longitude", fmt.Sprintf("%.6f", lng))
	params.Set("current_weather", "true")
	params.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m,wind_direction_10m")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code")
	params.Set("timezone", "auto")

	u := fmt.Sprintf("%s/forecast?%s", c.forecastBaseURL, params.Encode())

	var forecast weather.Forecast
	if err := c.getJSON(ctx, "forecast", u, &forecast); err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	return &forecast, nil
}

// FetchAirQuality fetches the current and hourly pollutant block for the
// combined weather report.
func (c *Client) FetchAirQuality(ctx context.Context, lat, lng float64) (*weather.AirQuality, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.6f", lat))
	params.Set("longitude", fmt.Sprintf("%.6f", lng))
	params.Set("current", reportAirQualityFields)
	params.Set("hourly", reportAirQualityFields)
	params.Set("timezone", "auto")

	u := fmt.Sprintf("%s/air-quality?%s", c.airQualityBaseURL, params.Encode())

	var airQuality weather.AirQuality
	if err := c.getJSON(ctx, "air-quality", u, &airQuality); err != nil {
		return nil, fmt.Errorf("fetch air quality: %w", err)
	}

	return &airQuality, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
// Non-2xx responses become typed upstream errors carrying the status code.
func (c *Client) getJSON(ctx context.Context, operation, url string, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.record(operation, time.Since(start), err)
	}()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if reqErr != nil {
		return fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return doErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &pollution.UpstreamError{StatusCode: resp.StatusCode}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("%w: %v", pollution.ErrMalformedPayload, decodeErr)
	}

	return nil
}

func (c *Client) record(operation string, duration time.Duration, err error) {
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, operation, duration, err)
	}
	if c.health == nil {
		return
	}
	if err != nil {
		c.health.RecordFailure(ProviderName, err)
	} else {
		c.health.RecordSuccess(ProviderName)
	}
}
