// Package handler provides HTTP handlers for the AirLens API.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/airlens/airlens/internal/api/models"
	"github.com/airlens/airlens/internal/api/response"
	"github.com/airlens/airlens/internal/pollution"
)

// PollutionAggregator resolves pollution queries into tagged results.
// *pollution.Service implements it.
type PollutionAggregator interface {
	Aggregate(ctx context.Context, q pollution.Query) *pollution.Result
}

// PollutionHandler handles pollution data endpoints.
type PollutionHandler struct {
	service PollutionAggregator
}

// NewPollutionHandler creates a new PollutionHandler.
func NewPollutionHandler(service PollutionAggregator) *PollutionHandler {
	return &PollutionHandler{service: service}
}

// GetPollution handles GET /api/pollution.
//
// Query parameters:
//   - pollutant: pm25 | pm10 | o3 | no2 | aqi (default: aqi)
//   - location:  place name to geocode
//   - lat, lng:  explicit coordinates (both required together)
//   - random:    "true" for a curated catalog sample
//   - count:     sample size for random/sampled modes
//
// Provider failures never surface as errors here: the service degrades to
// synthetic data and the metadata tags the result source.
func (h *PollutionHandler) GetPollution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pollutant := pollution.PollutantAQI
	if raw := q.Get("pollutant"); raw != "" {
		parsed, ok := pollution.ParsePollutant(raw)
		if !ok {
			response.BadRequest(w, r, "Invalid pollutant", []models.FieldError{
				{Field: "pollutant", Message: "must be one of: pm25, pm10, o3, no2, aqi", Code: "invalid_enum"},
			})
			return
		}
		pollutant = parsed
	}

	query := pollution.Query{
		Pollutant:    pollutant,
		LocationName: q.Get("location"),
		Random:       q.Get("random") == "true",
	}

	if raw := q.Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "Invalid count", []models.FieldError{
				{Field: "count", Message: "must be an integer", Code: "invalid_type"},
			})
			return
		}
		query.Count = count
	}

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw != "" || lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			response.BadRequest(w, r, "Invalid coordinates", []models.FieldError{
				{Field: "lat", Message: "lat and lng must both be valid numbers", Code: "invalid_type"},
			})
			return
		}
		query.Coordinates = &pollution.Coordinates{Lat: lat, Lng: lng}
	}

	result := h.service.Aggregate(r.Context(), query)

	metadata := models.PollutionMetadata{
		Pollutant:      string(pollutant),
		Random:         query.Random,
		Count:          len(result.Points),
		Source:         string(result.Source),
		FallbackReason: result.FallbackReason,
		Timestamp:      models.Timestamp(time.Now().UTC()),
	}
	if query.LocationName != "" && len(result.Points) == 1 {
		metadata.Location = result.Points[0].Location
	}

	response.JSON(w, r, http.StatusOK, models.PollutionResponse{
		Success:       true,
		PollutionData: result.Points,
		Metadata:      metadata,
	})
}
