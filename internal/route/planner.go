// Package route plans least-cost voyages over the navigable grid:
// endpoint snapping, clearance-constrained A* search, strategy selection,
// and voyage metrics.
package route

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/grid"
	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/weather"
)

// Clearance names the minimum-distance-from-land policy.
type Clearance string

const (
	ClearanceModerate   Clearance = "moderate"
	ClearanceStrict     Clearance = "strict"
	ClearanceVeryStrict Clearance = "very-strict"
)

// Km returns the required distance from land for the policy.
func (c Clearance) Km() float64 {
	switch c {
	case ClearanceModerate:
		return 10
	case ClearanceVeryStrict:
		return 30
	default:
		return 20 // strict is the default policy
	}
}

// StrategyAuto lets the planner pick the strategy from current weather.
const StrategyAuto models.Strategy = "auto"

// Request is one planning call.
type Request struct {
	Waypoints []geo.Point     // ordered ports, raw lat/lon, >= 2
	Strategy  models.Strategy // StrategyAuto or a fixed strategy
	Clearance Clearance
	// MaxVisitedNodes bounds each segment search; 0 means the planner
	// default. Bounds worst-case latency on sparse, tight grids.
	MaxVisitedNodes int
}

// Vessel carries the estimation constants for ETA, fuel, and cost.
type Vessel struct {
	ServiceSpeedKnots float64
	FuelTonsPerHour   float64
	FuelPriceUSDTon   float64
}

// DefaultVessel is a generic handysize profile.
func DefaultVessel() Vessel {
	return Vessel{
		ServiceSpeedKnots: 14,
		FuelTonsPerHour:   1.5,
		FuelPriceUSDTon:   620,
	}
}

const (
	defaultSnapRadiusDeg   = 0.5
	defaultMaxVisitedNodes = 200000
)

// Planner plans routes against a grid snapshot. A single Plan call is
// synchronous and single-threaded; concurrent calls against the same grid
// are safe because the grid is read-mostly.
type Planner struct {
	grid       *grid.Grid
	thresholds weather.Thresholds
	vessel     Vessel
}

// NewPlanner wires a planner to a grid snapshot and safety configuration.
func NewPlanner(g *grid.Grid, th weather.Thresholds, v Vessel) *Planner {
	return &Planner{grid: g, thresholds: th, vessel: v}
}

// Plan produces the least-cost route through the ordered waypoints, or
// fails with one of the typed planning errors. Any segment failure aborts
// the whole route: a partial route risking a land crossing is never
// returned.
func (p *Planner) Plan(ctx context.Context, req Request) (*models.Route, error) {
	if p.grid == nil {
		return nil, ErrGridUnavailable
	}
	if len(req.Waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least 2 waypoints, got %d", len(req.Waypoints))
	}
	maxVisited := req.MaxVisitedNodes
	if maxVisited <= 0 {
		maxVisited = defaultMaxVisitedNodes
	}

	// First pass: survey conditions along every leg's direct line, then
	// fix the strategy and the effective clearance once for the voyage.
	survey := conditionsSurvey{minVisM: math.Inf(1)}
	for i := 0; i+1 < len(req.Waypoints); i++ {
		survey = survey.merge(p.survey(req.Waypoints[i], req.Waypoints[i+1]))
	}

	var strategy models.RouteStrategy
	if req.Strategy == StrategyAuto || req.Strategy == "" {
		strategy = selectStrategy(survey, p.thresholds)
	} else {
		strategy = strategyFor(req.Strategy, survey, p.thresholds)
	}

	clearanceKm := req.Clearance.Km() * strategy.Deviation.ClearanceScale()

	var (
		cells          []grid.Key
		minClearanceKm = math.Inf(1)
		visitedTotal   int
	)
	for i := 0; i+1 < len(req.Waypoints); i++ {
		from, to := req.Waypoints[i], req.Waypoints[i+1]

		start, err := p.snap(from, clearanceKm)
		if err != nil {
			return nil, err
		}
		goal, err := p.snap(to, clearanceKm)
		if err != nil {
			return nil, err
		}

		seg, err := p.findPath(ctx, start, goal, clearanceKm, maxVisited)
		if err != nil {
			return nil, err
		}

		if len(cells) > 0 && len(seg.path) > 0 && cells[len(cells)-1] == seg.path[0] {
			seg.path = seg.path[1:]
		}
		cells = append(cells, seg.path...)
		minClearanceKm = math.Min(minClearanceKm, seg.minClearanceKm)
		visitedTotal += seg.visited
	}

	route := p.assemble(cells, strategy, survey, minClearanceKm, visitedTotal)
	return route, nil
}

// snap finds the traversable, clearance-compliant grid cell nearest a raw
// port coordinate. Ports sit against the coast, so the search radius
// widens with the clearance requirement to let endpoints move out to
// compliant water.
func (p *Planner) snap(pt geo.Point, clearanceKm float64) (grid.Key, error) {
	radiusDeg := defaultSnapRadiusDeg
	if widened := clearanceKm * 1.5 / 111.0; widened > radiusDeg {
		radiusDeg = widened
	}

	k, err := p.grid.NearestTraversable(pt.Lat, pt.Lon, radiusDeg, func(k grid.Key) bool {
		return p.grid.DistanceToLandKm(k) >= clearanceKm
	})
	if err != nil {
		if errors.Is(err, grid.ErrNoCellNearby) {
			return grid.Key{}, fmt.Errorf("%w: near (%.4f, %.4f)", ErrGridUnavailable, pt.Lat, pt.Lon)
		}
		return grid.Key{}, &EndpointUnreachableError{Waypoint: pt, Err: err}
	}
	return k, nil
}

// assemble turns the accepted cell path into the immutable Route.
func (p *Planner) assemble(cells []grid.Key, strategy models.RouteStrategy, survey conditionsSurvey, minClearanceKm float64, visited int) *models.Route {
	waypoints := make([]models.Waypoint, 0, len(cells))
	var distanceKm float64
	for i, k := range cells {
		center := p.grid.Center(k)
		waypoints = append(waypoints, models.Waypoint{
			Lat:     center.Lat,
			Lon:     center.Lon,
			Weather: p.grid.Weather(k),
		})
		if i > 0 {
			distanceKm += geo.Haversine(p.grid.Center(cells[i-1]), center)
		}
	}

	speed := p.vessel.ServiceSpeedKnots * (1 - strategy.Deviation.SpeedReductionPct()/100)
	durationHrs := (distanceKm / 1.852) / speed
	fuelPenalty := 1 + (100-survey.meanFuel)/100
	fuelTons := p.vessel.FuelTonsPerHour * durationHrs * fuelPenalty

	return &models.Route{
		Waypoints: waypoints,
		Strategy:  strategy,
		Metrics: models.RouteMetrics{
			SafetyScore:        survey.meanSafety,
			FuelEfficiency:     survey.meanFuel,
			DistanceKm:         distanceKm,
			DurationHrs:        durationHrs,
			SpeedKnots:         speed,
			FuelTons:           fuelTons,
			CostCurrency:       fuelTons * p.vessel.FuelPriceUSDTon,
			MinClearanceKm:     minClearanceKm,
			VisitedSearchNodes: visited,
		},
		PlannedAt: time.Now().UTC(),
	}
}

// DetectChange compares the strategy of consecutive plans for the same
// endpoints and emits the change event the caller appends to its log.
// Returns nil when the strategy is unchanged.
func DetectChange(previous, next *models.Route) *models.RouteChangeEvent {
	if previous == nil || next == nil {
		return nil
	}
	if previous.Strategy.Strategy == next.Strategy.Strategy {
		return nil
	}
	return &models.RouteChangeEvent{
		From:      previous.Strategy.Strategy,
		To:        next.Strategy.Strategy,
		Reason:    next.Strategy.Reason,
		Timestamp: next.PlannedAt,
	}
}
