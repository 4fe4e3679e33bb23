package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/grid"
	"github.com/searoute/searoute/internal/hazard"
	"github.com/searoute/searoute/internal/history"
	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/route"
	"github.com/searoute/searoute/internal/ui"
	"github.com/searoute/searoute/internal/weather"
)

func main() {
	gridPath := flag.String("grid", "data/searoute-grid.db", "Path to the grid database built by gridgen")
	waypointsArg := flag.String("waypoints", "", "Ordered waypoints as 'lat,lon;lat,lon[;...]' (at least 2)")
	strategyArg := flag.String("strategy", "auto", "Routing strategy: auto, optimal, fuel, or safe")
	clearanceArg := flag.String("clearance", "strict", "Land clearance policy: moderate, strict, or very-strict")
	weatherPath := flag.String("weather", "", "Optional JSON file of weather samples to apply before planning")
	hazardsPath := flag.String("hazards", "", "Optional JSON file of active hazard zones to check the route against")
	historyPath := flag.String("history", "data/searoute-history.db", "Path to the strategy history database")
	useTUI := flag.Bool("tui", false, "Show the route in the interactive viewer")
	flag.Parse()

	waypoints, err := parseWaypoints(*waypointsArg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	g, err := grid.Load(*gridPath)
	if err != nil {
		fmt.Printf("Error loading grid: %v\n", err)
		os.Exit(1)
	}

	if *weatherPath != "" {
		updates, err := loadWeather(*weatherPath)
		if err != nil {
			fmt.Printf("Error loading weather samples: %v\n", err)
			os.Exit(1)
		}
		g.RefreshCost(updates)
	}

	planner := route.NewPlanner(g, weather.DefaultThresholds(), route.DefaultVessel())
	req := route.Request{
		Waypoints: waypoints,
		Strategy:  parseStrategy(*strategyArg),
		Clearance: route.Clearance(*clearanceArg),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	planned, err := planner.Plan(ctx, req)
	if err != nil {
		printPlanError(err)
		os.Exit(1)
	}

	var zones []models.HazardZone
	if *hazardsPath != "" {
		zones, err = loadHazards(*hazardsPath)
		if err != nil {
			fmt.Printf("Error loading hazard zones: %v\n", err)
			os.Exit(1)
		}
	}
	report := hazard.Check(planned.Waypoints, zones, weather.DefaultThresholds())

	if event := recordHistory(*historyPath, waypoints, planned); event != nil {
		fmt.Printf("Strategy changed: %s -> %s (%s)\n", event.From, event.To, event.Reason)
	}

	if *useTUI {
		p := tea.NewProgram(ui.NewModel(planned, report), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running viewer: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printRoute(planned, report)
}

func parseWaypoints(arg string) ([]geo.Point, error) {
	if arg == "" {
		return nil, errors.New("--waypoints is required, e.g. --waypoints '18.96,72.82;13.08,80.27'")
	}
	var points []geo.Point
	for _, part := range strings.Split(arg, ";") {
		fields := strings.Split(strings.TrimSpace(part), ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("waypoint %q is not 'lat,lon'", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("waypoint %q: bad latitude: %w", part, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("waypoint %q: bad longitude: %w", part, err)
		}
		points = append(points, geo.Point{Lat: lat, Lon: lon})
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 waypoints, got %d", len(points))
	}
	return points, nil
}

func parseStrategy(arg string) models.Strategy {
	switch strings.ToLower(arg) {
	case "optimal":
		return models.StrategyOptimal
	case "fuel":
		return models.StrategyFuel
	case "safe":
		return models.StrategySafe
	default:
		return route.StrategyAuto
	}
}

// weatherFile is the on-disk sample format. Pointers distinguish missing
// fields, which become NaN so the cost model applies neutral defaults.
type weatherFile []struct {
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Temperature   *float64 `json:"temperature"`
	WindSpeed     *float64 `json:"windSpeed"`
	WindDirection *float64 `json:"windDirection"`
	WaveHeight    *float64 `json:"waveHeight"`
	WavePeriod    *float64 `json:"wavePeriod"`
	Visibility    *float64 `json:"visibility"`
	Precipitation *float64 `json:"precipitation"`
	CloudCover    *float64 `json:"cloudCover"`
	WeatherCode   int      `json:"weatherCode"`
}

func loadWeather(path string) ([]grid.CostUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weather file: %w", err)
	}
	var file weatherFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing weather file: %w", err)
	}

	updates := make([]grid.CostUpdate, 0, len(file))
	for _, rec := range file {
		updates = append(updates, grid.CostUpdate{
			Lat: rec.Lat,
			Lon: rec.Lon,
			Sample: models.WeatherSample{
				Temperature:   deref(rec.Temperature),
				WindSpeed:     deref(rec.WindSpeed),
				WindDirection: deref(rec.WindDirection),
				WaveHeight:    deref(rec.WaveHeight),
				WavePeriod:    deref(rec.WavePeriod),
				Visibility:    deref(rec.Visibility),
				Precipitation: deref(rec.Precipitation),
				CloudCover:    deref(rec.CloudCover),
				WeatherCode:   rec.WeatherCode,
				Timestamp:     time.Now().UTC(),
			},
		})
	}
	return updates, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return models.UnknownField()
	}
	return *v
}

func loadHazards(path string) ([]models.HazardZone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hazards file: %w", err)
	}
	var zones []models.HazardZone
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("parsing hazards file: %w", err)
	}
	return zones, nil
}

func recordHistory(path string, waypoints []geo.Point, planned *models.Route) *models.RouteChangeEvent {
	repo, err := history.Open(path)
	if err != nil {
		fmt.Printf("Warning: history unavailable: %v\n", err)
		return nil
	}
	defer repo.Close()

	first, last := waypoints[0], waypoints[len(waypoints)-1]
	key := history.EndpointKey(first.Lat, first.Lon, last.Lat, last.Lon)
	event, err := repo.Record(key, planned)
	if err != nil {
		fmt.Printf("Warning: recording history: %v\n", err)
		return nil
	}
	return event
}

func printPlanError(err error) {
	var unreachable *route.EndpointUnreachableError
	var noPath *route.NoPathFoundError
	switch {
	case errors.As(err, &unreachable), errors.As(err, &noPath):
		fmt.Printf("No safe route found: %v\n", err)
	case errors.Is(err, route.ErrGridUnavailable):
		fmt.Printf("Grid data unavailable: %v\n", err)
	default:
		fmt.Printf("Error planning route: %v\n", err)
	}
}

func printRoute(planned *models.Route, report hazard.Report) {
	fmt.Printf("Strategy: %s (deviation %s)\n", planned.Strategy.Strategy, planned.Strategy.Deviation)
	fmt.Printf("  %s\n", planned.Strategy.Reason)
	m := planned.Metrics
	fmt.Printf("Distance: %.0f km  Duration: %.1f hrs at %.1f kt\n", m.DistanceKm, m.DurationHrs, m.SpeedKnots)
	fmt.Printf("Fuel: %.1f t ($%.0f)  Safety: %.0f  Fuel efficiency: %.0f\n", m.FuelTons, m.CostCurrency, m.SafetyScore, m.FuelEfficiency)
	fmt.Printf("Minimum land clearance: %.1f km over %d waypoints\n", m.MinClearanceKm, len(planned.Waypoints))

	if len(report.Intersections) > 0 {
		fmt.Printf("\nHazards (%d):\n", len(report.Intersections))
		for _, hit := range report.Intersections {
			fmt.Printf("  [%s] %s at (%.2f, %.2f): %s\n", hit.Severity, hit.HazardName, hit.Lat, hit.Lon, hit.Message)
		}
		if report.RequiresReroute {
			fmt.Println("\nREROUTE REQUIRED: critical hazard on route")
		}
	}
}
