package classify

import (
	"context"
	"testing"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/models"
)

func square(minLat, minLon, maxLat, maxLon float64) geo.Ring {
	return geo.Ring{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
	}
}

func classifyTestGrid(t *testing.T, polygons []geo.Polygon) Result {
	t.Helper()
	c := New(polygons)
	c.SetWorkers(4)
	result, err := c.ClassifyGrid(context.Background(), 0, 10, 0, 10, 1.0)
	if err != nil {
		t.Fatalf("ClassifyGrid: %v", err)
	}
	return result
}

func cellAt(cells []models.GridCell, lat, lon float64) *models.GridCell {
	for i := range cells {
		if cells[i].Lat == lat && cells[i].Lon == lon {
			return &cells[i]
		}
	}
	return nil
}

func TestClassifyGrid_LandAndWater(t *testing.T) {
	island := geo.Polygon{Exterior: square(3.5, 3.5, 6.5, 6.5)}
	result := classifyTestGrid(t, []geo.Polygon{island})

	if c := cellAt(result.Cells, 5, 5); c == nil || !c.IsLand {
		t.Error("cell (5,5) inside the island should be land")
	}
	if c := cellAt(result.Cells, 0, 0); c == nil || c.IsLand {
		t.Error("cell (0,0) far from the island should be water")
	}
	if c := cellAt(result.Cells, 5, 5); c != nil && !c.IsObstacle {
		t.Error("land cell should be an obstacle")
	}
}

func TestClassifyGrid_HoleIsWater(t *testing.T) {
	// A land mass with a lagoon: the lagoon interior is water.
	landMass := geo.Polygon{
		Exterior: square(0.5, 0.5, 8.5, 8.5),
		Holes:    []geo.Ring{square(3.5, 3.5, 5.5, 5.5)},
	}
	result := classifyTestGrid(t, []geo.Polygon{landMass})

	if c := cellAt(result.Cells, 4, 4); c == nil || c.IsLand {
		t.Error("cell strictly inside the hole should classify as water")
	}
	if c := cellAt(result.Cells, 2, 2); c == nil || !c.IsLand {
		t.Error("cell on the land mass outside the hole should be land")
	}
}

func TestClassifyGrid_ZoneProperties(t *testing.T) {
	island := geo.Polygon{Exterior: square(3.5, 3.5, 6.5, 6.5)}
	result := classifyTestGrid(t, []geo.Polygon{island})

	land := make(map[[2]float64]bool)
	for _, c := range result.Cells {
		if c.IsLand {
			land[[2]float64{c.Lat, c.Lon}] = true
		}
	}
	hasLandNeighbor := func(c models.GridCell) bool {
		for _, d := range neighborOffsets {
			if land[[2]float64{c.Lat + d[0], c.Lon + d[1]}] {
				return true
			}
		}
		return false
	}

	for _, c := range result.Cells {
		if c.IsLand {
			if c.Zone != "" {
				t.Errorf("land cell (%v, %v) has zone %q, want none", c.Lat, c.Lon, c.Zone)
			}
			continue
		}
		switch c.Zone {
		case models.ZoneOpenWater:
			if hasLandNeighbor(c) {
				t.Errorf("open_water cell (%v, %v) has a land neighbor", c.Lat, c.Lon)
			}
		case models.ZoneCoastal:
			if !hasLandNeighbor(c) {
				t.Errorf("coastal cell (%v, %v) has no land neighbor", c.Lat, c.Lon)
			}
		default:
			t.Errorf("water cell (%v, %v) has no zone", c.Lat, c.Lon)
		}
	}
}

func TestClassifyGrid_SkipsDegeneratePolygons(t *testing.T) {
	island := geo.Polygon{Exterior: square(3.5, 3.5, 6.5, 6.5)}
	degenerate := geo.Polygon{Exterior: geo.Ring{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}}

	result := classifyTestGrid(t, []geo.Polygon{degenerate, island})

	if result.SkippedPolygons != 1 {
		t.Errorf("SkippedPolygons = %d, want 1", result.SkippedPolygons)
	}
	// The healthy polygon still classified.
	if c := cellAt(result.Cells, 5, 5); c == nil || !c.IsLand {
		t.Error("valid island ignored after skipping the degenerate polygon")
	}
}

func TestClassifyGrid_InvalidBounds(t *testing.T) {
	c := New(nil)
	if _, err := c.ClassifyGrid(context.Background(), 10, 0, 0, 10, 1.0); err == nil {
		t.Error("inverted bounds should fail")
	}
	if _, err := c.ClassifyGrid(context.Background(), 0, 10, 0, 10, 0); err == nil {
		t.Error("zero resolution should fail")
	}
}
