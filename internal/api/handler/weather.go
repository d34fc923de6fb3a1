package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/airlens/airlens/internal/api/models"
	"github.com/airlens/airlens/internal/api/response"
	"github.com/airlens/airlens/internal/weather"
)

// WeatherReporter builds combined weather and air-quality reports.
// *weather.Service implements it.
type WeatherReporter interface {
	LocationReport(ctx context.Context, query string) (*weather.Report, error)
}

// WeatherHandler handles weather report endpoints.
type WeatherHandler struct {
	service WeatherReporter
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service WeatherReporter) *WeatherHandler {
	return &WeatherHandler{service: service}
}

// GetWeather handles GET /api/weather?q=<location>.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	report, err := h.service.LocationReport(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrEmptyQuery):
			response.BadRequest(w, r, "Missing location query", []models.FieldError{
				{Field: "q", Message: "location query is required", Code: "required"},
			})
		case errors.Is(err, weather.ErrLocationNotFound):
			response.NotFound(w, r, "No location matched the query")
		default:
			response.InternalError(w, r, "Weather data is temporarily unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, report)
}
