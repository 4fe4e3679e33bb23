// Package hazard re-evaluates an already-planned route against active
// hazard zones and per-waypoint weather. Read-only and idempotent: the
// same inputs always produce the same report, and neither the route nor
// the zone list is mutated.
package hazard

import (
	"fmt"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/weather"
)

// Report is the result of one evaluation. Intersections are ordered by
// waypoint, then by zone order in the input, so repeated calls are
// byte-identical.
type Report struct {
	Intersections   []models.HazardIntersection
	RequiresReroute bool
}

// Check computes zone intersections and weather flags for every waypoint.
func Check(waypoints []models.Waypoint, zones []models.HazardZone, th weather.Thresholds) Report {
	var report Report
	for _, wp := range waypoints {
		p := geo.Point{Lat: wp.Lat, Lon: wp.Lon}

		for _, z := range zones {
			dist := geo.Haversine(p, geo.Point{Lat: z.Lat, Lon: z.Lon})
			if dist > z.RadiusKm {
				continue
			}
			sev := zoneSeverity(dist, z.RadiusKm, z.Level)
			report.Intersections = append(report.Intersections, models.HazardIntersection{
				Lat:                wp.Lat,
				Lon:                wp.Lon,
				HazardName:         z.Name,
				DistanceToCenterKm: dist,
				Severity:           sev,
				Message:            fmt.Sprintf("%s: waypoint %.1f km from center (radius %.0f km)", z.Name, dist, z.RadiusKm),
			})
		}

		if wp.Weather != nil {
			if hit := weatherHazard(wp, *wp.Weather, th); hit != nil {
				report.Intersections = append(report.Intersections, *hit)
			}
		}
	}

	for _, hit := range report.Intersections {
		if hit.Severity == models.SeverityCritical {
			report.RequiresReroute = true
			break
		}
	}
	return report
}

// zoneSeverity escalates with penetration depth into the radius, and an
// ACTIVE zone escalates one step over an advisory.
func zoneSeverity(distKm, radiusKm float64, level models.HazardLevel) models.Severity {
	depth := 1 - distKm/radiusKm
	sev := models.SeverityModerate
	switch {
	case depth >= 2.0/3.0:
		sev = models.SeverityCritical
	case depth >= 1.0/3.0:
		sev = models.SeverityHigh
	}
	if level == models.HazardActive {
		sev = escalate(sev)
	}
	return sev
}

func escalate(s models.Severity) models.Severity {
	switch s {
	case models.SeverityModerate:
		return models.SeverityHigh
	default:
		return models.SeverityCritical
	}
}

// weatherHazard flags a waypoint whose own conditions breach the safety
// thresholds, even with no named hazard nearby.
func weatherHazard(wp models.Waypoint, s models.WeatherSample, th weather.Thresholds) *models.HazardIntersection {
	var sev models.Severity
	var msg string

	switch {
	case models.Known(s.WindSpeed) && s.WindSpeed > th.MaxSafeWind*th.CriticalFactor:
		sev = models.SeverityCritical
		msg = fmt.Sprintf("wind %.0f kt above critical limit %.0f kt", s.WindSpeed, th.MaxSafeWind*th.CriticalFactor)
	case models.Known(s.WaveHeight) && s.WaveHeight > th.MaxSafeWaveHeight*th.CriticalFactor:
		sev = models.SeverityCritical
		msg = fmt.Sprintf("waves %.1f m above critical limit %.1f m", s.WaveHeight, th.MaxSafeWaveHeight*th.CriticalFactor)
	case models.Known(s.Visibility) && s.Visibility < th.MinSafeVisibility*0.5:
		sev = models.SeverityCritical
		msg = fmt.Sprintf("visibility %.0f m below critical limit %.0f m", s.Visibility, th.MinSafeVisibility*0.5)
	case models.Known(s.WindSpeed) && s.WindSpeed > th.MaxSafeWind:
		sev = models.SeverityHigh
		msg = fmt.Sprintf("wind %.0f kt above safe limit %.0f kt", s.WindSpeed, th.MaxSafeWind)
	case models.Known(s.WaveHeight) && s.WaveHeight > th.MaxSafeWaveHeight:
		sev = models.SeverityHigh
		msg = fmt.Sprintf("waves %.1f m above safe limit %.1f m", s.WaveHeight, th.MaxSafeWaveHeight)
	case models.Known(s.Visibility) && s.Visibility < th.MinSafeVisibility:
		sev = models.SeverityModerate
		msg = fmt.Sprintf("visibility %.0f m below safe limit %.0f m", s.Visibility, th.MinSafeVisibility)
	case models.Known(s.Precipitation) && s.Precipitation > th.MaxSafeRainfall:
		sev = models.SeverityModerate
		msg = fmt.Sprintf("rainfall %.1f mm/hr above safe limit %.1f mm/hr", s.Precipitation, th.MaxSafeRainfall)
	default:
		return nil
	}

	return &models.HazardIntersection{
		Lat:        wp.Lat,
		Lon:        wp.Lon,
		HazardName: "severe weather",
		Severity:   sev,
		Message:    msg,
	}
}
