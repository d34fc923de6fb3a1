package pollution

import "time"

// seriesTimeLayouts are the timestamp formats seen in provider hourly
// series. Open-Meteo emits minute precision without a zone suffix when
// timezone=UTC is requested.
var seriesTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// parseSeriesTime parses a single series timestamp, trying each known
// layout. Zone-less layouts are interpreted as UTC.
func parseSeriesTime(s string) (time.Time, bool) {
	for _, layout := range seriesTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NearestIndex returns the index of the sample in times closest to ref.
// Entries that fail to parse are skipped. Ties resolve to the first index
// at the minimal distance. Returns ErrNoTimestamps when nothing in the
// series is parseable.
func NearestIndex(times []string, ref time.Time) (int, error) {
	best := -1
	var bestDiff time.Duration

	for i, raw := range times {
		t, ok := parseSeriesTime(raw)
		if !ok {
			continue
		}
		diff := ref.Sub(t)
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	if best == -1 {
		return 0, ErrNoTimestamps
	}
	return best, nil
}
