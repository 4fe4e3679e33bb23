package models

// HazardLevel is the activation state reported by the hazard feed.
type HazardLevel string

const (
	HazardAdvisory HazardLevel = "ADVISORY"
	HazardActive   HazardLevel = "ACTIVE"
)

// HazardConditions are the observed conditions inside a hazard zone.
type HazardConditions struct {
	WindSpeed  float64 // knots
	WaveHeight float64 // meters
	Pressure   float64 // hPa
}

// HazardZone is a circular hazard (e.g. a cyclone) from the external
// feed. Read-only to the engine.
type HazardZone struct {
	Name       string
	Lat        float64
	Lon        float64
	RadiusKm   float64
	Conditions HazardConditions
	Level      HazardLevel
}

// Severity ranks a hazard intersection.
type Severity string

const (
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// HazardIntersection is a detected proximity between a route waypoint
// and an active hazard, or a waypoint whose own weather breaches safety
// thresholds. Produced fresh on every evaluation.
type HazardIntersection struct {
	Lat                float64
	Lon                float64
	HazardName         string
	DistanceToCenterKm float64
	Severity           Severity
	Message            string
}
