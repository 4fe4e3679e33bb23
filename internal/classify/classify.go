// Package classify builds the static land/water layer of the navigable
// grid: ray-casting point-in-polygon over coastline polygons, then a
// coastal buffering pass over the 8 grid neighbors of every water cell.
package classify

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/models"
)

// Result is one classification batch: the cells plus the count of
// polygons that had to be skipped as malformed. Skips are non-fatal but
// must be surfaced, not swallowed.
type Result struct {
	Cells           []models.GridCell
	SkippedPolygons int
}

// Classifier classifies grid cells against a fixed coastline set.
type Classifier struct {
	polygons []geo.Polygon
	skipped  int
	workers  int
}

// New validates the coastline polygons up front. Degenerate polygons
// (too few vertices, non-finite coordinates) are dropped and counted
// rather than failing the batch.
func New(polygons []geo.Polygon) *Classifier {
	c := &Classifier{workers: runtime.NumCPU()}
	for _, pg := range polygons {
		if err := pg.Validate(); err != nil {
			c.skipped++
			continue
		}
		c.polygons = append(c.polygons, pg)
	}
	return c
}

// SetWorkers bounds the classification worker pool.
func (c *Classifier) SetWorkers(n int) {
	if n > 0 {
		c.workers = n
	}
}

// IsLand reports whether the point is inside any polygon's exterior ring
// and inside none of that polygon's holes.
func (c *Classifier) IsLand(p geo.Point) bool {
	for _, pg := range c.polygons {
		if pg.Contains(p) {
			return true
		}
	}
	return false
}

// ClassifyGrid classifies every cell of the lattice covering the given
// bounds at the given resolution. Cell classification is pure and
// independent per cell, so cells are processed concurrently; each worker
// writes only its own output slots.
func (c *Classifier) ClassifyGrid(ctx context.Context, minLat, maxLat, minLon, maxLon, resolution float64) (Result, error) {
	if resolution <= 0 {
		return Result{}, fmt.Errorf("resolution must be positive, got %v", resolution)
	}
	if minLat > maxLat || minLon > maxLon {
		return Result{}, fmt.Errorf("inverted bounds (%v..%v, %v..%v)", minLat, maxLat, minLon, maxLon)
	}

	var points []geo.Point
	for lat := minLat; lat <= maxLat+1e-9; lat += resolution {
		for lon := minLon; lon <= maxLon+1e-9; lon += resolution {
			points = append(points, geo.Point{Lat: roundTo(lat, resolution), Lon: roundTo(lon, resolution)})
		}
	}
	return c.ClassifyCells(ctx, points, resolution)
}

// ClassifyCells classifies an explicit list of cell coordinates.
func (c *Classifier) ClassifyCells(ctx context.Context, points []geo.Point, resolution float64) (Result, error) {
	cells := make([]models.GridCell, len(points))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cells[i] = models.GridCell{
				Lat:    p.Lat,
				Lon:    p.Lon,
				IsLand: c.IsLand(p),
			}
			cells[i].IsObstacle = cells[i].IsLand
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("classifying cells: %w", err)
	}

	markCoastalZones(cells, resolution)

	return Result{Cells: cells, SkippedPolygons: c.skipped}, nil
}

// markCoastalZones is the secondary pass: a water cell with any land
// among its 8 neighbors at grid resolution is coastal, otherwise open
// water. Recomputed only when the land mask or resolution changes.
func markCoastalZones(cells []models.GridCell, resolution float64) {
	land := make(map[cellKey]bool, len(cells))
	for _, c := range cells {
		if c.IsLand {
			land[keyOf(c.Lat, c.Lon, resolution)] = true
		}
	}

	for i := range cells {
		if cells[i].IsLand {
			cells[i].Zone = ""
			continue
		}
		cells[i].Zone = models.ZoneOpenWater
		for _, d := range neighborOffsets {
			nk := keyOf(cells[i].Lat+d[0]*resolution, cells[i].Lon+d[1]*resolution, resolution)
			if land[nk] {
				cells[i].Zone = models.ZoneCoastal
				break
			}
		}
	}
}

var neighborOffsets = [8][2]float64{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// cellKey identifies a cell by its lattice indices, avoiding float
// comparison noise.
type cellKey struct{ row, col int }

func keyOf(lat, lon, resolution float64) cellKey {
	return cellKey{
		row: int(math.Round(lat / resolution)),
		col: int(math.Round(lon / resolution)),
	}
}

func roundTo(v, resolution float64) float64 {
	return math.Round(v/resolution) * resolution
}
