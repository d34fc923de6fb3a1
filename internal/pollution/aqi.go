package pollution

import "math"

// breakpoint is one row of an EPA AQI breakpoint table: the concentration
// range [CLow, CHigh] maps linearly onto the index range [ILow, IHigh].
type breakpoint struct {
	CLow, CHigh float64
	ILow, IHigh float64
}

// EPA breakpoint tables for 24-hour PM2.5 and PM10 (µg/m³).
var (
	pm25Breakpoints = []breakpoint{
		{0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	}

	pm10Breakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	}
)

// aqiFromBreakpoints interpolates a concentration within its bracket.
// The published tables leave gaps between brackets (12.0 to 12.1 for
// PM2.5, 54 to 55 for PM10); a concentration in a gap interpolates
// against the bracket above it so the mapping stays monotonic.
// Concentrations above the top bracket clamp to 500 rather than
// extrapolating. Negative or non-finite input yields no value.
func aqiFromBreakpoints(c float64, table []breakpoint) (int, bool) {
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, false
	}
	for _, bp := range table {
		if c > bp.CHigh {
			continue
		}
		aqi := (bp.IHigh-bp.ILow)/(bp.CHigh-bp.CLow)*(c-bp.CLow) + bp.ILow
		if aqi < bp.ILow {
			aqi = bp.ILow
		}
		return int(math.Round(aqi)), true
	}
	return 500, true
}

// AQIFromPM25 converts a PM2.5 concentration (µg/m³) to its AQI sub-index.
// The second return value is false when no AQI is derivable from the input.
func AQIFromPM25(c float64) (int, bool) {
	return aqiFromBreakpoints(c, pm25Breakpoints)
}

// AQIFromPM10 converts a PM10 concentration (µg/m³) to its AQI sub-index.
func AQIFromPM10(c float64) (int, bool) {
	return aqiFromBreakpoints(c, pm10Breakpoints)
}

// CombinedAQI returns the dominant-pollutant AQI: the maximum of the PM2.5
// and PM10 sub-indices that are derivable. It returns false when neither
// concentration yields a sub-index.
func CombinedAQI(pm25, pm10 *float64) (int, bool) {
	best := -1
	if pm25 != nil {
		if sub, ok := AQIFromPM25(*pm25); ok && sub > best {
			best = sub
		}
	}
	if pm10 != nil {
		if sub, ok := AQIFromPM10(*pm10); ok && sub > best {
			best = sub
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
