package models

import (
	"math"
	"time"
)

// WeatherSample represents marine weather at a single coordinate.
// Fields the provider could not supply are NaN; scoring substitutes
// neutral defaults rather than failing the cell.
type WeatherSample struct {
	Temperature   float64 // Celsius
	WindSpeed     float64 // knots
	WindDirection float64 // degrees true
	WaveHeight    float64 // meters
	WavePeriod    float64 // seconds
	Visibility    float64 // meters
	Precipitation float64 // mm/hr
	CloudCover    float64 // percent
	WeatherCode   int     // WMO weather code (0 if unknown)
	Timestamp     time.Time
}

// UnknownField is the sentinel for a field the weather provider did not
// deliver.
func UnknownField() float64 { return math.NaN() }

// Known reports whether a sample field carries a real observation.
func Known(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
