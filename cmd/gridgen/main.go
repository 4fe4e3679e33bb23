package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/searoute/searoute/internal/classify"
	"github.com/searoute/searoute/internal/grid"
)

func main() {
	coastline := flag.String("coastline", "", "Path to a coastline shapefile (.shp) of land polygons")
	out := flag.String("out", "data/searoute-grid.db", "Path to the grid database to create")
	minLat := flag.Float64("min-lat", 0, "Southern bound of the grid in degrees")
	maxLat := flag.Float64("max-lat", 0, "Northern bound of the grid in degrees")
	minLon := flag.Float64("min-lon", 0, "Western bound of the grid in degrees")
	maxLon := flag.Float64("max-lon", 0, "Eastern bound of the grid in degrees")
	resolution := flag.Float64("resolution", 0.2, "Grid cell size in degrees")
	workers := flag.Int("workers", runtime.NumCPU(), "Classification worker count")
	flag.Parse()

	if *coastline == "" {
		fmt.Println("Error: --coastline is required.")
		os.Exit(1)
	}
	if *minLat >= *maxLat || *minLon >= *maxLon {
		fmt.Println("Error: grid bounds must satisfy min-lat < max-lat and min-lon < max-lon.")
		os.Exit(1)
	}

	polygons, err := classify.LoadCoastline(*coastline)
	if err != nil {
		log.Fatalf("Loading coastline: %v", err)
	}

	classifier := classify.New(polygons)
	classifier.SetWorkers(*workers)

	log.Printf("Classifying grid (%.2f..%.2f, %.2f..%.2f) at %.2f degrees...",
		*minLat, *maxLat, *minLon, *maxLon, *resolution)
	result, err := classifier.ClassifyGrid(context.Background(), *minLat, *maxLat, *minLon, *maxLon, *resolution)
	if err != nil {
		log.Fatalf("Classifying grid: %v", err)
	}
	if result.SkippedPolygons > 0 {
		log.Printf("Warning: skipped %d malformed coastline polygons", result.SkippedPolygons)
	}

	store, err := grid.OpenStore(*out)
	if err != nil {
		log.Fatalf("Opening grid store: %v", err)
	}
	defer store.Close()

	if err := store.SaveCells(*resolution, result.Cells); err != nil {
		log.Fatalf("Saving grid: %v", err)
	}
}
