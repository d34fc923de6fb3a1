package pollution_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airlens/airlens/internal/pollution"
)

func TestAQIFromPM25(t *testing.T) {
	tests := []struct {
		name          string
		concentration float64
		want          int
		wantOK        bool
	}{
		{name: "zero", concentration: 0, want: 0, wantOK: true},
		{name: "good bracket upper bound", concentration: 12.0, want: 50, wantOK: true},
		{name: "moderate bracket lower bound", concentration: 12.1, want: 51, wantOK: true},
		{name: "moderate bracket upper bound", concentration: 35.4, want: 100, wantOK: true},
		{name: "unhealthy for sensitive groups", concentration: 55.4, want: 150, wantOK: true},
		{name: "interpolated mid bracket", concentration: 35.5, want: 101, wantOK: true},
		{name: "between published brackets", concentration: 12.05, want: 51, wantOK: true},
		{name: "hazardous upper bound", concentration: 500.4, want: 500, wantOK: true},
		{name: "above table clamps to 500", concentration: 600, want: 500, wantOK: true},
		{name: "negative", concentration: -1, wantOK: false},
		{name: "NaN", concentration: math.NaN(), wantOK: false},
		{name: "positive infinity", concentration: math.Inf(1), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pollution.AQIFromPM25(tt.concentration)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAQIFromPM25_Interpolation(t *testing.T) {
	// Midpoint of the 12.1-35.4 bracket should land near the middle of
	// the 51-100 index range.
	got, ok := pollution.AQIFromPM25(23.75)
	require.True(t, ok)
	assert.InDelta(t, 76, got, 1)
}

func TestAQI_Monotonicity(t *testing.T) {
	// Increasing concentration never decreases the index, including across
	// the gaps between published brackets.
	convert := map[string]func(float64) (int, bool){
		"pm25": pollution.AQIFromPM25,
		"pm10": pollution.AQIFromPM10,
	}

	for name, fn := range convert {
		t.Run(name, func(t *testing.T) {
			prev := -1
			for c := 0.0; c <= 700; c += 0.05 {
				got, ok := fn(c)
				require.True(t, ok)
				require.GreaterOrEqual(t, got, prev, "AQI decreased at concentration %.2f", c)
				prev = got
			}
		})
	}
}

func TestAQIFromPM10(t *testing.T) {
	tests := []struct {
		name          string
		concentration float64
		want          int
		wantOK        bool
	}{
		{name: "good bracket upper bound", concentration: 54, want: 50, wantOK: true},
		{name: "moderate bracket lower bound", concentration: 55, want: 51, wantOK: true},
		{name: "moderate bracket upper bound", concentration: 154, want: 100, wantOK: true},
		{name: "between published brackets", concentration: 54.5, want: 51, wantOK: true},
		{name: "above table clamps to 500", concentration: 700, want: 500, wantOK: true},
		{name: "negative", concentration: -0.1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pollution.AQIFromPM10(tt.concentration)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCombinedAQI(t *testing.T) {
	v := func(f float64) *float64 { return &f }

	tests := []struct {
		name   string
		pm25   *float64
		pm10   *float64
		want   int
		wantOK bool
	}{
		{name: "both nil", wantOK: false},
		{name: "pm25 only", pm25: v(12.0), want: 50, wantOK: true},
		{name: "pm10 only", pm10: v(154), want: 100, wantOK: true},
		{name: "pm25 dominates", pm25: v(35.4), pm10: v(54), want: 100, wantOK: true},
		{name: "pm10 dominates", pm25: v(12.0), pm10: v(254), want: 150, wantOK: true},
		{name: "negative pm25 ignored", pm25: v(-5), pm10: v(54), want: 50, wantOK: true},
		{name: "both negative", pm25: v(-5), pm10: v(-5), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pollution.CombinedAQI(tt.pm25, tt.pm10)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
