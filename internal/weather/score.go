// Package weather converts raw marine weather samples into the safety and
// fuel-efficiency scores and the discrete traversal cost the path search
// consumes.
package weather

import (
	"math"

	"github.com/searoute/searoute/internal/models"
)

// Thresholds is the safety configuration passed explicitly to the cost
// model and the strategy selector. Never read from globals.
type Thresholds struct {
	MaxSafeWind       float64 // knots
	MinSafeVisibility float64 // meters
	MaxSafeRainfall   float64 // mm/hr
	MaxSafeWaveHeight float64 // meters
	OptimalTemp       float64 // Celsius
	// CriticalFactor scales MaxSafeWind/MaxSafeWaveHeight for the
	// "conditions force SAFE" check. Tunable; 1.2 matches fleet practice.
	CriticalFactor float64
}

// DefaultThresholds returns the standing fleet safety limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxSafeWind:       25,
		MinSafeVisibility: 2000,
		MaxSafeRainfall:   10,
		MaxSafeWaveHeight: 4,
		OptimalTemp:       18,
		CriticalFactor:    1.2,
	}
}

// Assessment is the scored view of one weather sample.
type Assessment struct {
	Safety         float64 // 0 (dangerous) .. 100 (benign)
	FuelEfficiency float64 // 0 (wasteful) .. 100 (efficient)
	Cost           int     // 1 .. 10, from the average of the two scores
}

// Neutral defaults substituted for fields the provider did not deliver.
const (
	defaultWindKts     = 8
	defaultWaveM       = 1.0
	defaultVisibilityM = 10000
	defaultTempC       = 18
	defaultPrecipMmHr  = 0
)

func orDefault(v, def float64) float64 {
	if !models.Known(v) {
		return def
	}
	return v
}

// Score is a pure, total function: any sample, including one with every
// field missing, yields scores clamped to [0,100] and a cost in [1,10].
func Score(s models.WeatherSample) Assessment {
	wind := orDefault(s.WindSpeed, defaultWindKts)
	wave := orDefault(s.WaveHeight, defaultWaveM)
	vis := orDefault(s.Visibility, defaultVisibilityM)
	temp := orDefault(s.Temperature, defaultTempC)
	precip := orDefault(s.Precipitation, defaultPrecipMmHr)

	safety := 100.0
	safety -= windSafetyPenalty(wind)
	safety -= waveSafetyPenalty(wave)
	safety -= precipSafetyPenalty(precip)
	safety -= visibilityPenalty(vis)
	safety -= weatherCodePenalty(s.WeatherCode)
	safety = clamp(safety, 0, 100)

	fuel := 100.0
	fuel -= windFuelPenalty(wind)
	fuel -= waveFuelPenalty(wave)
	fuel -= tempFuelPenalty(temp)
	if precip > 10 {
		fuel -= 10
	}
	fuel = clamp(fuel, 0, 100)

	return Assessment{
		Safety:         safety,
		FuelEfficiency: fuel,
		Cost:           costBucket(safety, fuel),
	}
}

func windSafetyPenalty(kts float64) float64 {
	switch {
	case kts > 25:
		return 40
	case kts > 20:
		return 30
	case kts > 15:
		return 20
	case kts > 10:
		return 10
	case kts > 5:
		return 5
	}
	return 0
}

func waveSafetyPenalty(m float64) float64 {
	switch {
	case m > 6:
		return 35
	case m > 4:
		return 25
	case m > 2.5:
		return 15
	case m > 1.5:
		return 8
	}
	return 0
}

func precipSafetyPenalty(mmHr float64) float64 {
	switch {
	case mmHr > 10:
		return 20
	case mmHr > 5:
		return 12
	case mmHr > 1:
		return 5
	}
	return 0
}

func visibilityPenalty(m float64) float64 {
	switch {
	case m < 1000:
		return 30
	case m < 5000:
		return 15
	case m < 8000:
		return 8
	}
	return 0
}

// weatherCodePenalty covers categorical conditions the numeric fields
// understate: thunderstorms and snow/ice (WMO codes).
func weatherCodePenalty(code int) float64 {
	switch {
	case code >= 95 && code <= 99:
		return 30 // thunderstorm
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return 20 // snow
	}
	return 0
}

func windFuelPenalty(kts float64) float64 {
	switch {
	case kts > 25:
		return 30
	case kts > 20:
		return 22
	case kts > 15:
		return 15
	case kts > 10:
		return 8
	case kts < 3:
		return 10 // becalmed: engines run off their efficiency curve
	}
	return 0
}

func waveFuelPenalty(m float64) float64 {
	switch {
	case m > 6:
		return 30
	case m > 4:
		return 20
	case m > 2.5:
		return 12
	case m > 1.5:
		return 6
	}
	return 0
}

func tempFuelPenalty(c float64) float64 {
	switch {
	case c < 0:
		return 18 // cold bites harder: bunker viscosity, de-icing load
	case c > 35:
		return 12
	}
	return 0
}

// costBucket maps the score average onto the small integer alphabet the
// search runs over: avg>=90 -> 1, each 10 points below adds 1, avg<10 -> 10.
func costBucket(safety, fuel float64) int {
	avg := (safety + fuel) / 2
	c := 10 - int(avg)/10
	if c < 1 {
		c = 1
	}
	if c > 10 {
		c = 10
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
