package pollution

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// plausibleValue synthesizes a reading in a realistic range for the
// pollutant. Ranges follow typical urban observations so synthetic points
// render indistinguishably from real ones.
func plausibleValue(pollutant Pollutant, rng *rand.Rand) float64 {
	switch pollutant {
	case PollutantPM25:
		return 5 + rng.Float64()*90
	case PollutantPM10:
		return 8 + rng.Float64()*140
	case PollutantO3:
		return 50 + rng.Float64()*70
	case PollutantNO2:
		return 5 + rng.Float64()*70
	default:
		return 20 + rng.Float64()*180
	}
}

// Generator produces synthetic pollution points. It exists so the
// aggregator can guarantee a structurally valid response during provider
// outages; availability is traded for occasional non-factual values.
// One Generator is shared across request goroutines; mu guards the
// underlying rand source, which is not safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator. A nil source seeds from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{
		rng: rand.New(src),
		now: time.Now,
	}
}

// MockPoints produces count synthetic points with randomly distributed
// coordinates. Latitude is kept between -55 and 60 so points land on
// plausible populated terrain.
func (g *Generator) MockPoints(pollutant Pollutant, count int) []Point {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]Point, 0, count)
	now := g.now().UTC()

	for i := 0; i < count; i++ {
		lat := roundCoord(g.rng.Float64()*115 - 55)
		lng := roundCoord(g.rng.Float64()*360 - 180)
		points = append(points, Point{
			Lat:           lat,
			Lng:           lng,
			Value:         plausibleValue(pollutant, g.rng),
			PollutantType: pollutant,
			Location:      fmt.Sprintf("Lat %.1f, Lon %.1f", lat, lng),
			Timestamp:     now,
		})
	}
	return points
}

// CuratedPoints samples count cities from the static catalog (uniform
// Fisher-Yates shuffle) and synthesizes a value per city. The provider is
// never contacted on this path.
func (g *Generator) CuratedPoints(pollutant Pollutant, count int) []Point {
	g.mu.Lock()
	defer g.mu.Unlock()

	cities := make([]Location, len(Catalog))
	copy(cities, Catalog)

	for i := len(cities) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		cities[i], cities[j] = cities[j], cities[i]
	}

	if count > len(cities) {
		count = len(cities)
	}

	now := g.now().UTC()
	points := make([]Point, 0, count)
	for _, c := range cities[:count] {
		points = append(points, Point{
			Lat:           c.Lat,
			Lng:           c.Lng,
			Value:         plausibleValue(pollutant, g.rng),
			PollutantType: pollutant,
			Location:      c.Label,
			Timestamp:     now,
		})
	}
	return points
}

// Shuffle permutes points in place using the generator's source.
func (g *Generator) Shuffle(points []Point) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
}

func roundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}
