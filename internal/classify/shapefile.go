package classify

import (
	"fmt"
	"log"

	shp "github.com/jonas-p/go-shp"

	"github.com/searoute/searoute/internal/geo"
)

// LoadCoastline reads land-mass polygons from an ESRI shapefile. Ring
// orientation follows the ESRI convention: clockwise parts are exterior
// rings, counter-clockwise parts are holes. Each hole is attached to the
// exterior ring that contains its first vertex; orphan holes are dropped
// with a warning.
func LoadCoastline(path string) ([]geo.Polygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer reader.Close()

	var polygons []geo.Polygon
	shapeCount := 0
	for reader.Next() {
		_, s := reader.Shape()
		polygon, ok := s.(*shp.Polygon)
		if !ok {
			continue
		}
		shapeCount++
		polygons = append(polygons, splitRings(polygon)...)
	}

	if shapeCount == 0 {
		return nil, fmt.Errorf("shapefile %s contains no polygon shapes", path)
	}
	log.Printf("Loaded %d land polygons from %d shapes in %s", len(polygons), shapeCount, path)
	return polygons, nil
}

// splitRings separates one shapefile record into exterior rings and their
// holes.
func splitRings(polygon *shp.Polygon) []geo.Polygon {
	var exteriors []geo.Polygon
	var holes []geo.Ring

	for partIdx := range polygon.Parts {
		start := int(polygon.Parts[partIdx])
		end := len(polygon.Points)
		if partIdx+1 < len(polygon.Parts) {
			end = int(polygon.Parts[partIdx+1])
		}

		ring := make(geo.Ring, 0, end-start)
		for i := start; i < end; i++ {
			ring = append(ring, geo.Point{Lat: polygon.Points[i].Y, Lon: polygon.Points[i].X})
		}
		if len(ring) < 3 {
			continue
		}

		// ESRI: clockwise (negative signed area) = exterior.
		if ring.SignedArea() < 0 {
			exteriors = append(exteriors, geo.Polygon{Exterior: ring})
		} else {
			holes = append(holes, ring)
		}
	}

	// A record with only counter-clockwise parts is still a land mass;
	// treat the parts as exteriors rather than dropping the record.
	if len(exteriors) == 0 {
		for _, h := range holes {
			exteriors = append(exteriors, geo.Polygon{Exterior: h})
		}
		return exteriors
	}

	for _, h := range holes {
		attached := false
		for i := range exteriors {
			if exteriors[i].Exterior.Contains(h[0]) {
				exteriors[i].Holes = append(exteriors[i].Holes, h)
				attached = true
				break
			}
		}
		if !attached {
			log.Printf("Warning: hole ring with %d vertices matches no exterior, dropped", len(h))
		}
	}
	return exteriors
}
