// Package grid holds the navigable lattice the planner searches over.
// Classification (land/obstacle/zone) is fixed when the grid is built and
// lives in its own structure; weather cost is refreshed independently, so
// a cost refresh cannot touch land status by construction.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/weather"
)

// NeutralCost is used for cells that have no weather sample yet.
const NeutralCost = 5

var (
	// ErrNoCellNearby means the grid has no data at all within the
	// search radius (missing region, not a blocked endpoint).
	ErrNoCellNearby = errors.New("no grid cell within search radius")
	// ErrNoTraversableCell means cells exist nearby but every one is
	// land, blocked, or fails the caller's filter.
	ErrNoTraversableCell = errors.New("no traversable cell within search radius")
)

// Key identifies a cell by lattice indices, immune to float rounding.
type Key struct {
	Row int
	Col int
}

// Classification is the immutable per-cell layer.
type Classification struct {
	IsLand     bool
	IsObstacle bool
	Zone       models.Zone
}

// costEntry is the mutable per-cell layer.
type costEntry struct {
	weather *models.WeatherSample
	cost    int
}

// Grid is a uniform lat/lon lattice. Safe for concurrent readers; cost
// refresh takes the write lock, classification needs none.
type Grid struct {
	resolution float64
	class      map[Key]Classification
	landByLat  []geo.Point // land cell centers sorted by latitude

	mu    sync.RWMutex
	costs map[Key]costEntry
}

// CostUpdate carries one refreshed weather sample for a cell.
type CostUpdate struct {
	Lat    float64
	Lon    float64
	Sample models.WeatherSample
}

// New builds a grid from classified cells. Initial costs come from the
// cells; zero means "no weather yet" and reads back as NeutralCost.
func New(resolution float64, cells []models.GridCell) (*Grid, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %v", resolution)
	}
	if len(cells) == 0 {
		return nil, errors.New("grid needs at least one cell")
	}

	g := &Grid{
		resolution: resolution,
		class:      make(map[Key]Classification, len(cells)),
		costs:      make(map[Key]costEntry, len(cells)),
	}
	for _, c := range cells {
		k := g.KeyOf(c.Lat, c.Lon)
		g.class[k] = Classification{
			IsLand:     c.IsLand,
			IsObstacle: c.IsObstacle || c.IsLand,
			Zone:       c.Zone,
		}
		if c.IsLand {
			g.landByLat = append(g.landByLat, g.Center(k))
		}
		if !c.IsLand && (c.Weather != nil || c.Cost > 0) {
			g.costs[k] = costEntry{weather: c.Weather, cost: clampCost(c.Cost)}
		}
	}
	sort.Slice(g.landByLat, func(i, j int) bool {
		return g.landByLat[i].Lat < g.landByLat[j].Lat
	})
	return g, nil
}

// Resolution returns the lattice step in degrees.
func (g *Grid) Resolution() float64 { return g.resolution }

// KeyOf maps arbitrary coordinates onto the cell containing them.
func (g *Grid) KeyOf(lat, lon float64) Key {
	return Key{
		Row: int(math.Round(lat / g.resolution)),
		Col: int(math.Round(lon / g.resolution)),
	}
}

// Center returns the cell's center coordinate.
func (g *Grid) Center(k Key) geo.Point {
	return geo.Point{
		Lat: float64(k.Row) * g.resolution,
		Lon: float64(k.Col) * g.resolution,
	}
}

// Classification looks up the immutable layer; ok is false when the grid
// has no data for the cell.
func (g *Grid) Classification(k Key) (Classification, bool) {
	c, ok := g.class[k]
	return c, ok
}

// IsTraversable reports whether a vessel may occupy the cell.
func (g *Grid) IsTraversable(k Key) bool {
	c, ok := g.class[k]
	return ok && !c.IsLand && !c.IsObstacle
}

// Cost returns the cell's current traversal cost, NeutralCost when no
// weather has been applied.
func (g *Grid) Cost(k Key) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e, ok := g.costs[k]; ok && e.cost > 0 {
		return e.cost
	}
	return NeutralCost
}

// Weather returns the cell's latest sample, nil if none.
func (g *Grid) Weather(k Key) *models.WeatherSample {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e, ok := g.costs[k]; ok {
		return e.weather
	}
	return nil
}

// Neighbors returns the 8-connected neighbor keys that exist in the grid.
func (g *Grid) Neighbors(k Key) []Key {
	out := make([]Key, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nk := Key{Row: k.Row + dr, Col: k.Col + dc}
			if _, ok := g.class[nk]; ok {
				out = append(out, nk)
			}
		}
	}
	return out
}

// RefreshCost applies new weather samples to the mutable layer. Updates
// for unknown or land cells are ignored: land status is not this layer's
// to change, and a refresh must never invent cells.
func (g *Grid) RefreshCost(updates []CostUpdate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range updates {
		k := g.KeyOf(u.Lat, u.Lon)
		c, ok := g.class[k]
		if !ok || c.IsLand {
			continue
		}
		sample := u.Sample
		g.costs[k] = costEntry{
			weather: &sample,
			cost:    weather.Score(sample).Cost,
		}
	}
}

// Nearest finds the closest known cell to the query point within
// radiusDeg, regardless of traversability.
func (g *Grid) Nearest(lat, lon, radiusDeg float64) (Key, bool) {
	return g.nearestMatching(lat, lon, radiusDeg, func(Key) bool { return true })
}

// NearestTraversable finds the closest cell near the query point that is
// traversable and passes the optional filter. The two failure modes are
// distinct: ErrNoCellNearby (no data) vs ErrNoTraversableCell (data, all
// blocked or filtered out).
func (g *Grid) NearestTraversable(lat, lon, radiusDeg float64, filter func(Key) bool) (Key, error) {
	if _, ok := g.Nearest(lat, lon, radiusDeg); !ok {
		return Key{}, ErrNoCellNearby
	}
	k, ok := g.nearestMatching(lat, lon, radiusDeg, func(k Key) bool {
		if !g.IsTraversable(k) {
			return false
		}
		return filter == nil || filter(k)
	})
	if !ok {
		return Key{}, ErrNoTraversableCell
	}
	return k, nil
}

func (g *Grid) nearestMatching(lat, lon, radiusDeg float64, pred func(Key) bool) (Key, bool) {
	steps := int(math.Ceil(radiusDeg / g.resolution))
	center := g.KeyOf(lat, lon)
	query := geo.Point{Lat: lat, Lon: lon}

	best := Key{}
	bestDist := math.Inf(1)
	found := false
	for dr := -steps; dr <= steps; dr++ {
		for dc := -steps; dc <= steps; dc++ {
			k := Key{Row: center.Row + dr, Col: center.Col + dc}
			if _, ok := g.class[k]; !ok {
				continue
			}
			if !pred(k) {
				continue
			}
			d := geo.Haversine(query, g.Center(k))
			if d < bestDist {
				bestDist = d
				best = k
				found = true
			}
		}
	}
	return best, found
}

// DistanceToLandKm returns the distance from the cell center to the
// nearest land cell, +Inf when the grid holds no land. A latitude window
// prefilters candidates before the exact distance test.
func (g *Grid) DistanceToLandKm(k Key) float64 {
	if len(g.landByLat) == 0 {
		return math.Inf(1)
	}
	p := g.Center(k)

	best := math.Inf(1)
	// Widen the window until it provably covers the best distance.
	// 1 degree of latitude is ~111 km.
	for windowDeg := 2 * g.resolution; ; windowDeg *= 2 {
		lo := sort.Search(len(g.landByLat), func(i int) bool {
			return g.landByLat[i].Lat >= p.Lat-windowDeg
		})
		hi := sort.Search(len(g.landByLat), func(i int) bool {
			return g.landByLat[i].Lat > p.Lat+windowDeg
		})
		for _, land := range g.landByLat[lo:hi] {
			if d := geo.Haversine(p, land); d < best {
				best = d
			}
		}
		coveredKm := windowDeg * 111.0
		if best <= coveredKm || (lo == 0 && hi == len(g.landByLat)) {
			return best
		}
	}
}

func clampCost(c int) int {
	if c < 1 {
		return NeutralCost
	}
	if c > 10 {
		return 10
	}
	return c
}
