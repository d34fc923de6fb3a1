// Package weather provides combined weather and air-quality location
// reports.
package weather

import (
	"errors"
	"time"
)

// Service errors.
var (
	// ErrLocationNotFound indicates the query geocoded to nothing.
	ErrLocationNotFound = errors.New("location not found")

	// ErrProviderUnavailable indicates the forecast provider failed.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrEmptyQuery indicates a blank location query.
	ErrEmptyQuery = errors.New("location query is empty")
)

// Report is the combined payload served for a location query. AirQuality
// is nil when the air-quality fetch failed; the report is still served.
type Report struct {
	Location   ReportLocation `json:"location"`
	Weather    *Forecast      `json:"weather"`
	AirQuality *AirQuality    `json:"air_quality"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ReportLocation is the geocoded location echoed in the report.
type ReportLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Forecast is the typed forecast payload: current conditions plus hourly
// and daily series as parallel arrays, matching the provider's field
// naming so the UI consumes it unchanged.
type Forecast struct {
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Timezone       string          `json:"timezone,omitempty"`
	CurrentWeather *CurrentWeather `json:"current_weather,omitempty"`
	Hourly         *HourlySeries   `json:"hourly,omitempty"`
	Daily          *DailySeries    `json:"daily,omitempty"`
}

// CurrentWeather is the current-conditions block of a forecast.
type CurrentWeather struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
}

// HourlySeries holds the hourly forecast arrays, parallel to Time.
type HourlySeries struct {
	Time               []string   `json:"time"`
	Temperature2M      []*float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity2M []*float64 `json:"relative_humidity_2m,omitempty"`
	Precipitation      []*float64 `json:"precipitation,omitempty"`
	WeatherCode        []*int     `json:"weather_code,omitempty"`
	WindSpeed10M       []*float64 `json:"wind_speed_10m,omitempty"`
	WindDirection10M   []*float64 `json:"wind_direction_10m,omitempty"`
}

// DailySeries holds the daily forecast arrays, parallel to Time.
type DailySeries struct {
	Time             []string   `json:"time"`
	Temperature2MMax []*float64 `json:"temperature_2m_max,omitempty"`
	Temperature2MMin []*float64 `json:"temperature_2m_min,omitempty"`
	PrecipitationSum []*float64 `json:"precipitation_sum,omitempty"`
	WeatherCode      []*int     `json:"weather_code,omitempty"`
}

// AirQuality is the typed air-quality payload attached to a report. The
// AQI fields are computed server-side (provider us_aqi preferred,
// breakpoint-derived otherwise); everything else is passed through.
type AirQuality struct {
	Current *AirQualityCurrent `json:"current,omitempty"`
	Hourly  *AirQualityHourly  `json:"hourly,omitempty"`
}

// AirQualityCurrent is the current air-quality block.
type AirQualityCurrent struct {
	Time            string   `json:"time,omitempty"`
	USAQI           *float64 `json:"us_aqi,omitempty"`
	PM10            *float64 `json:"pm10,omitempty"`
	PM25            *float64 `json:"pm2_5,omitempty"`
	CarbonMonoxide  *float64 `json:"carbon_monoxide,omitempty"`
	NitrogenDioxide *float64 `json:"nitrogen_dioxide,omitempty"`
	SulphurDioxide  *float64 `json:"sulphur_dioxide,omitempty"`
	Ozone           *float64 `json:"ozone,omitempty"`

	// AQI is the computed current AQI.
	AQI *int `json:"aqi,omitempty"`
}

// AirQualityHourly holds the hourly air-quality arrays, parallel to Time.
type AirQualityHourly struct {
	Time            []string   `json:"time"`
	PM10            []*float64 `json:"pm10,omitempty"`
	PM25            []*float64 `json:"pm2_5,omitempty"`
	CarbonMonoxide  []*float64 `json:"carbon_monoxide,omitempty"`
	NitrogenDioxide []*float64 `json:"nitrogen_dioxide,omitempty"`
	SulphurDioxide  []*float64 `json:"sulphur_dioxide,omitempty"`
	Ozone           []*float64 `json:"ozone,omitempty"`
	USAQI           []*float64 `json:"us_aqi,omitempty"`

	// AQI is the computed per-hour AQI, parallel to Time.
	AQI []*int `json:"aqi,omitempty"`
}
