package models

import "time"

// Strategy is the routing policy selected for a voyage.
type Strategy string

const (
	StrategyOptimal Strategy = "OPTIMAL"
	StrategyFuel    Strategy = "FUEL"
	StrategySafe    Strategy = "SAFE"
)

// Deviation is the categorical extra distance a strategy tolerates
// versus the most direct path.
type Deviation string

const (
	DeviationNone   Deviation = "NONE"
	DeviationLow    Deviation = "LOW"
	DeviationMedium Deviation = "MEDIUM"
	DeviationHigh   Deviation = "HIGH"
)

// DistanceMultiplier maps a deviation class to the detour factor used
// for estimation and reporting.
func (d Deviation) DistanceMultiplier() float64 {
	switch d {
	case DeviationLow:
		return 1.05
	case DeviationMedium:
		return 1.15
	case DeviationHigh:
		return 1.30
	default:
		return 1.0
	}
}

// SpeedReductionPct is the advisory speed reduction applied to ETA and
// fuel estimation for the deviation class. It does not affect the search.
func (d Deviation) SpeedReductionPct() float64 {
	switch d {
	case DeviationLow:
		return 5
	case DeviationMedium:
		return 15
	case DeviationHigh:
		return 25
	default:
		return 0
	}
}

// ClearanceScale widens the minimum land clearance for cautious
// deviation classes.
func (d Deviation) ClearanceScale() float64 {
	switch d {
	case DeviationMedium:
		return 1.25
	case DeviationHigh:
		return 1.5
	default:
		return 1.0
	}
}

// RouteStrategy is the chosen policy with its human-readable justification.
type RouteStrategy struct {
	Strategy  Strategy
	Reason    string
	Deviation Deviation
}

// Waypoint is one point of a planned route, optionally carrying the
// weather sampled there at planning time.
type Waypoint struct {
	Lat     float64
	Lon     float64
	Weather *WeatherSample
}

// RouteMetrics aggregates the voyage estimate for a planned route.
type RouteMetrics struct {
	SafetyScore        float64
	FuelEfficiency     float64
	DistanceKm         float64
	DurationHrs        float64
	SpeedKnots         float64
	FuelTons           float64
	CostCurrency       float64
	MinClearanceKm     float64 // achieved minimum distance to land
	VisitedSearchNodes int
}

// Route is the product of one planning request. It is immutable once
// returned; a new planning call supersedes it rather than mutating it.
type Route struct {
	Waypoints []Waypoint
	Strategy  RouteStrategy
	Metrics   RouteMetrics
	PlannedAt time.Time
}

// RouteChangeEvent records a strategy change between consecutive plans
// for the same endpoints. The log it is appended to belongs to the caller.
type RouteChangeEvent struct {
	From      Strategy
	To        Strategy
	Reason    string
	Timestamp time.Time
}
