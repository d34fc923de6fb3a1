// Package pollution provides pollution data aggregation: AQI computation
// from raw pollutant concentrations, nearest-time resolution of hourly
// observation series, batched provider fetches, and synthetic fallback data.
package pollution

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Domain errors.
var (
	// ErrLocationNotFound indicates geocoding yielded no result. This is an
	// expected outcome, not an upstream failure; callers fall back rather
	// than surface it.
	ErrLocationNotFound = errors.New("location not found")

	// ErrMalformedPayload indicates the provider response was missing
	// expected fields (e.g. no hourly.time).
	ErrMalformedPayload = errors.New("malformed provider payload")

	// ErrNoObservations indicates the observation series held no usable
	// sample for the requested pollutant.
	ErrNoObservations = errors.New("no observations available")

	// ErrNoTimestamps indicates a time series with no parseable entries.
	ErrNoTimestamps = errors.New("no parseable timestamps in series")
)

// UpstreamError represents a non-2xx response from a provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// RateLimited reports whether the upstream rejected the request with 429.
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == 429
}

// Pollutant represents a pollutant type exposed by the API.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm25"
	PollutantPM10 Pollutant = "pm10"
	PollutantO3   Pollutant = "o3"
	PollutantNO2  Pollutant = "no2"
	PollutantAQI  Pollutant = "aqi"
)

// ParsePollutant validates a pollutant query value.
func ParsePollutant(s string) (Pollutant, bool) {
	switch Pollutant(s) {
	case PollutantPM25, PollutantPM10, PollutantO3, PollutantNO2, PollutantAQI:
		return Pollutant(s), true
	default:
		return "", false
	}
}

// Point is a single normalized pollution reading. It is the unit of output
// for both real and synthetic data; consumers cannot distinguish the two
// structurally.
type Point struct {
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Value         float64   `json:"value"`
	PollutantType Pollutant `json:"pollutantType"`
	Location      string    `json:"location,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Place is a geocoded location.
type Place struct {
	Name string
	Lat  float64
	Lng  float64
}

// Location is an input coordinate with an optional label, used by the batch
// coordinator and the city catalog.
type Location struct {
	Label string
	Lat   float64
	Lng   float64
}

// ObservationSeries is the normalized hourly air-quality series for one
// location. Times and the pollutant arrays are parallel; entries may be nil
// where the provider had no data. Fetched fresh per aggregation and
// discarded after the nearest-time sample is extracted.
type ObservationSeries struct {
	Times []string

	PM25  []*float64
	PM10  []*float64
	Ozone []*float64
	NO2   []*float64
	USAQI []*float64

	// CurrentUSAQI is the provider's directly-measured current AQI, when
	// supplied.
	CurrentUSAQI *float64
}

// At returns the value of the given array at index i, or nil when the array
// is shorter than the series or the entry is missing.
func at(arr []*float64, i int) *float64 {
	if i < 0 || i >= len(arr) {
		return nil
	}
	return arr[i]
}

// Sample extracts the per-pollutant values at index i.
func (s *ObservationSeries) Sample(i int) SeriesSample {
	return SeriesSample{
		PM25:  at(s.PM25, i),
		PM10:  at(s.PM10, i),
		Ozone: at(s.Ozone, i),
		NO2:   at(s.NO2, i),
		USAQI: at(s.USAQI, i),
	}
}

// SeriesSample holds the pollutant values observed at a single hour.
type SeriesSample struct {
	PM25  *float64
	PM10  *float64
	Ozone *float64
	NO2   *float64
	USAQI *float64
}

// Value resolves the reading for the requested pollutant. For PollutantAQI
// a provider-supplied us_aqi wins whenever present; otherwise the AQI is
// derived from the PM2.5/PM10 breakpoints.
func (s SeriesSample) Value(pollutant Pollutant) (float64, bool) {
	switch pollutant {
	case PollutantPM25:
		if s.PM25 != nil {
			return *s.PM25, true
		}
	case PollutantPM10:
		if s.PM10 != nil {
			return *s.PM10, true
		}
	case PollutantO3:
		if s.Ozone != nil {
			return *s.Ozone, true
		}
	case PollutantNO2:
		if s.NO2 != nil {
			return *s.NO2, true
		}
	case PollutantAQI:
		if s.USAQI != nil {
			return *s.USAQI, true
		}
		if aqi, ok := CombinedAQI(s.PM25, s.PM10); ok {
			return float64(aqi), true
		}
	}
	return 0, false
}

// Provider defines the upstream data source for the aggregation core.
type Provider interface {
	// Geocode resolves a place name to coordinates. Returns
	// ErrLocationNotFound when the provider has no match.
	Geocode(ctx context.Context, name string) (*Place, error)

	// FetchObservations fetches the hourly air-quality series for a point.
	FetchObservations(ctx context.Context, lat, lng float64) (*ObservationSeries, error)
}
