// Package geo provides coordinate types and the spherical/planar geometry
// primitives the routing engine is built on: great-circle distance and
// ray-casting point-in-polygon over coastline rings.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Ring is an ordered, implicitly closed sequence of vertices.
type Ring []Point

// Polygon is a land mass: one exterior ring plus optional hole rings
// (water enclosed by land, e.g. a lagoon).
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Contains reports whether p lies inside the ring, using the even-odd
// ray-casting rule. Vertices are treated as lon/lat (x/y).
func (r Ring) Contains(p Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			x := (vj.Lon-vi.Lon)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Validate rejects rings that cannot participate in a point test.
func (r Ring) Validate() error {
	if len(r) < 3 {
		return fmt.Errorf("ring has %d vertices, need at least 3", len(r))
	}
	for _, v := range r {
		if math.IsNaN(v.Lat) || math.IsNaN(v.Lon) ||
			math.IsInf(v.Lat, 0) || math.IsInf(v.Lon, 0) {
			return fmt.Errorf("ring contains non-finite vertex (%v, %v)", v.Lat, v.Lon)
		}
	}
	return nil
}

// Validate checks the exterior and every hole ring.
func (pg Polygon) Validate() error {
	if err := pg.Exterior.Validate(); err != nil {
		return fmt.Errorf("exterior: %w", err)
	}
	for i, h := range pg.Holes {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("hole %d: %w", i, err)
		}
	}
	return nil
}

// Contains reports whether p is on land with respect to this polygon:
// inside the exterior ring and inside none of the holes.
func (pg Polygon) Contains(p Point) bool {
	if !pg.Exterior.Contains(p) {
		return false
	}
	for _, h := range pg.Holes {
		if h.Contains(p) {
			return false
		}
	}
	return true
}

// SignedArea returns the signed planar area of the ring in degree units.
// Positive means counter-clockwise vertex order.
func (r Ring) SignedArea() float64 {
	var sum float64
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += (r[j].Lon * r[i].Lat) - (r[i].Lon * r[j].Lat)
	}
	return sum / 2
}
