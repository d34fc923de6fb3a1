package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airlens/airlens/internal/api"
	"github.com/airlens/airlens/internal/api/models"
	"github.com/airlens/airlens/internal/pollution"
	"github.com/airlens/airlens/internal/weather"
)

// stubProvider implements pollution.Provider and weather.Provider.
type stubProvider struct {
	geocodeErr error
	fetchErr   error
}

func (p *stubProvider) Geocode(_ context.Context, name string) (*pollution.Place, error) {
	if p.geocodeErr != nil {
		return nil, p.geocodeErr
	}
	return &pollution.Place{Name: name, Lat: 34.05, Lng: -118.24}, nil
}

func (p *stubProvider) FetchObservations(_ context.Context, _, _ float64) (*pollution.ObservationSeries, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	now := time.Now().UTC()
	v := func(f float64) *float64 { return &f }
	return &pollution.ObservationSeries{
		Times: []string{now.Format("2006-01-02T15:04")},
		PM25:  []*float64{v(18.5)},
		PM10:  []*float64{v(30)},
		Ozone: []*float64{v(60)},
		NO2:   []*float64{v(12)},
		USAQI: []*float64{v(64)},
	}, nil
}

func (p *stubProvider) FetchForecast(_ context.Context, lat, lng float64) (*weather.Forecast, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return &weather.Forecast{
		Latitude:  lat,
		Longitude: lng,
		CurrentWeather: &weather.CurrentWeather{
			Time:        "2025-01-15T12:00",
			Temperature: 21.5,
		},
	}, nil
}

func (p *stubProvider) FetchAirQuality(_ context.Context, _, _ float64) (*weather.AirQuality, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	v := 42.0
	return &weather.AirQuality{
		Current: &weather.AirQualityCurrent{USAQI: &v},
	}, nil
}

func newTestRouter(provider *stubProvider) http.Handler {
	cache := pollution.NewCache(pollution.CacheConfig{})

	pollutionService := pollution.NewService(pollution.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		Cache:    cache,
	})
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "now",
		Logger:           zerolog.Nop(),
		PollutionService: pollutionService,
		WeatherService:   weatherService,
		Cache:            cache,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_Ready(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/ready", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Status(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusOK, status.Status)
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, "reading-cache", status.Subsystems[0].Name)
}

func TestRouter_PollutionByLocation(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/pollution?location=Los+Angeles&pollutant=pm25", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PollutionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.PollutionData, 1)
	assert.Equal(t, "Los Angeles", resp.PollutionData[0].Location)
	assert.InDelta(t, 18.5, resp.PollutionData[0].Value, 0.001)
	assert.Equal(t, string(pollution.SourceOpenMeteo), resp.Metadata.Source)
}

func TestRouter_PollutionRandom(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/pollution?random=true&count=7", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PollutionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.PollutionData, 7)
	assert.Equal(t, string(pollution.SourceCurated), resp.Metadata.Source)
}

func TestRouter_PollutionInvalidPollutant(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/pollution?pollutant=lead", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "pollutant")
}

func TestRouter_PollutionProviderDownStillServes(t *testing.T) {
	router := newTestRouter(&stubProvider{
		geocodeErr: errors.New("connection refused"),
		fetchErr:   errors.New("connection refused"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/pollution?location=Boston", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PollutionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.PollutionData)
	assert.Equal(t, string(pollution.SourceFallback), resp.Metadata.Source)
	assert.NotEmpty(t, resp.Metadata.FallbackReason)
}

func TestRouter_WeatherReport(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/weather?q=Denver", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report weather.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Denver", report.Location.Name)
	require.NotNil(t, report.Weather)
	require.NotNil(t, report.AirQuality)
	require.NotNil(t, report.AirQuality.Current.AQI)
	assert.Equal(t, 42, *report.AirQuality.Current.AQI)
}

func TestRouter_WeatherMissingQuery(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/weather", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "q")
}

func TestRouter_WeatherLocationNotFound(t *testing.T) {
	router := newTestRouter(&stubProvider{geocodeErr: pollution.ErrLocationNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/weather?q=Nowhereville", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
