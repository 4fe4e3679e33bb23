package models

// Zone classifies a water cell by proximity to land.
type Zone string

const (
	ZoneOpenWater Zone = "open_water"
	ZoneCoastal   Zone = "coastal"
)

// GridCell is one cell of the navigable lattice. Identity is the lat/lon
// pair rounded to the grid resolution. IsLand and Zone are fixed at
// classification time; Weather and Cost are refreshed independently and
// never touch the classification fields.
type GridCell struct {
	Lat        float64
	Lon        float64
	IsLand     bool
	IsObstacle bool // land, or an explicitly blocked strait/shoal
	Zone       Zone // water cells only
	Weather    *WeatherSample
	Cost       int // 1 (benign) .. 10 (hostile)
}
