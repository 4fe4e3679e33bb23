package route

import (
	"errors"
	"fmt"

	"github.com/searoute/searoute/internal/geo"
)

// ErrGridUnavailable means classification or cost data is missing for the
// requested region; no search is attempted.
var ErrGridUnavailable = errors.New("grid data unavailable for requested region")

// EndpointUnreachableError means no traversable cell satisfying the
// clearance requirement exists near a requested waypoint. An expected,
// policy-driven outcome, not a bug: callers should present it as "no safe
// route found".
type EndpointUnreachableError struct {
	Waypoint geo.Point
	Err      error
}

func (e *EndpointUnreachableError) Error() string {
	return fmt.Sprintf("no traversable cell near waypoint (%.4f, %.4f): %v", e.Waypoint.Lat, e.Waypoint.Lon, e.Err)
}

func (e *EndpointUnreachableError) Unwrap() error { return e.Err }

// NoPathFoundError means the search exhausted the grid (or its node
// budget) without reaching the goal under the clearance constraint. Best
// partial progress is kept for diagnostics.
type NoPathFoundError struct {
	From           geo.Point
	To             geo.Point
	VisitedNodes   int
	BestProgressKm float64
}

func (e *NoPathFoundError) Error() string {
	return fmt.Sprintf("no path from (%.4f, %.4f) to (%.4f, %.4f): %d nodes visited, best progress %.1f km",
		e.From.Lat, e.From.Lon, e.To.Lat, e.To.Lon, e.VisitedNodes, e.BestProgressKm)
}
