package models

import "github.com/airlens/airlens/internal/pollution"

// PollutionResponse is the envelope for GET /api/pollution. Success is
// always true: degraded requests are answered with synthetic data and
// tagged in the metadata rather than failed.
type PollutionResponse struct {
	Success       bool              `json:"success"`
	PollutionData []pollution.Point `json:"pollutionData"`
	Metadata      PollutionMetadata `json:"metadata"`
}

// PollutionMetadata describes how the pollution data was produced.
type PollutionMetadata struct {
	Pollutant string `json:"pollutant"`

	// Location echoes the resolved location for single-location queries.
	Location string `json:"location,omitempty"`

	// Random is true for curated catalog samples.
	Random bool `json:"random,omitempty"`

	Count int `json:"count"`

	// Source tags the data origin: live provider, cache, curated catalog
	// or synthetic fallback.
	Source string `json:"source"`

	// FallbackReason explains a synthetic-fallback result.
	FallbackReason string `json:"fallbackReason,omitempty"`

	Timestamp Timestamp `json:"timestamp"`
}
