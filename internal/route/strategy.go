package route

import (
	"fmt"
	"math"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/weather"
)

// conditionsSurvey aggregates the weather sampled along a first-pass
// direct line between two endpoints. Cells without a sample contribute
// the neutral defaults via the cost model.
type conditionsSurvey struct {
	meanSafety float64
	meanFuel   float64
	maxWindKts float64
	maxWaveM   float64
	minVisM    float64
	samples    int
}

// survey walks the great-circle-ish direct line between the endpoints at
// grid-resolution steps and scores the weather found at each cell.
func (p *Planner) survey(from, to geo.Point) conditionsSurvey {
	steps := int(math.Ceil(geo.Haversine(from, to) / (p.grid.Resolution() * 111.0)))
	if steps < 1 {
		steps = 1
	}

	s := conditionsSurvey{minVisM: math.Inf(1)}
	var safetySum, fuelSum float64
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pt := geo.Point{
			Lat: from.Lat + t*(to.Lat-from.Lat),
			Lon: from.Lon + t*(to.Lon-from.Lon),
		}
		k := p.grid.KeyOf(pt.Lat, pt.Lon)

		var sample models.WeatherSample
		if w := p.grid.Weather(k); w != nil {
			sample = *w
		} else {
			sample = neutralSample()
		}
		a := weather.Score(sample)
		safetySum += a.Safety
		fuelSum += a.FuelEfficiency
		s.samples++

		if models.Known(sample.WindSpeed) && sample.WindSpeed > s.maxWindKts {
			s.maxWindKts = sample.WindSpeed
		}
		if models.Known(sample.WaveHeight) && sample.WaveHeight > s.maxWaveM {
			s.maxWaveM = sample.WaveHeight
		}
		if models.Known(sample.Visibility) && sample.Visibility < s.minVisM {
			s.minVisM = sample.Visibility
		}
	}
	s.meanSafety = safetySum / float64(s.samples)
	s.meanFuel = fuelSum / float64(s.samples)
	return s
}

func neutralSample() models.WeatherSample {
	nan := models.UnknownField()
	return models.WeatherSample{
		Temperature:   nan,
		WindSpeed:     nan,
		WindDirection: nan,
		WaveHeight:    nan,
		WavePeriod:    nan,
		Visibility:    nan,
		Precipitation: nan,
		CloudCover:    nan,
	}
}

// merge folds another segment's survey into this one.
func (s conditionsSurvey) merge(o conditionsSurvey) conditionsSurvey {
	total := s.samples + o.samples
	if total == 0 {
		return s
	}
	return conditionsSurvey{
		meanSafety: (s.meanSafety*float64(s.samples) + o.meanSafety*float64(o.samples)) / float64(total),
		meanFuel:   (s.meanFuel*float64(s.samples) + o.meanFuel*float64(o.samples)) / float64(total),
		maxWindKts: math.Max(s.maxWindKts, o.maxWindKts),
		maxWaveM:   math.Max(s.maxWaveM, o.maxWaveM),
		minVisM:    math.Min(s.minVisM, o.minVisM),
		samples:    total,
	}
}

// selectStrategy applies the policy ladder. Critical conditions force
// SAFE with a HIGH deviation and override everything else; degraded
// safety or fuel economy pick the milder strategies. Deterministic:
// identical surveys always yield the identical strategy.
func selectStrategy(s conditionsSurvey, th weather.Thresholds) models.RouteStrategy {
	criticalWind := th.MaxSafeWind * th.CriticalFactor
	criticalWave := th.MaxSafeWaveHeight * th.CriticalFactor
	criticalVis := th.MinSafeVisibility * 0.5

	switch {
	case s.maxWindKts > criticalWind:
		return models.RouteStrategy{
			Strategy:  models.StrategySafe,
			Deviation: models.DeviationHigh,
			Reason:    fmt.Sprintf("wind %.0f kt exceeds critical limit %.0f kt; taking maximum-clearance routing", s.maxWindKts, criticalWind),
		}
	case s.minVisM < criticalVis:
		return models.RouteStrategy{
			Strategy:  models.StrategySafe,
			Deviation: models.DeviationHigh,
			Reason:    fmt.Sprintf("visibility %.0f m below critical limit %.0f m; taking maximum-clearance routing", s.minVisM, criticalVis),
		}
	case s.maxWaveM > criticalWave:
		return models.RouteStrategy{
			Strategy:  models.StrategySafe,
			Deviation: models.DeviationHigh,
			Reason:    fmt.Sprintf("waves %.1f m exceed critical limit %.1f m; taking maximum-clearance routing", s.maxWaveM, criticalWave),
		}
	case s.meanSafety < 60:
		return models.RouteStrategy{
			Strategy:  models.StrategySafe,
			Deviation: models.DeviationMedium,
			Reason:    fmt.Sprintf("aggregate safety score %.0f below 60; favoring sheltered routing", s.meanSafety),
		}
	case s.meanFuel < 70:
		return models.RouteStrategy{
			Strategy:  models.StrategyFuel,
			Deviation: models.DeviationLow,
			Reason:    fmt.Sprintf("aggregate fuel efficiency %.0f below 70; favoring economical routing", s.meanFuel),
		}
	default:
		return models.RouteStrategy{
			Strategy:  models.StrategyOptimal,
			Deviation: models.DeviationNone,
			Reason:    fmt.Sprintf("conditions benign (safety %.0f, fuel %.0f); direct routing", s.meanSafety, s.meanFuel),
		}
	}
}

// strategyFor resolves a requested strategy, filling in the deviation and
// reason a fixed (non-auto) request implies.
func strategyFor(requested models.Strategy, s conditionsSurvey, th weather.Thresholds) models.RouteStrategy {
	auto := selectStrategy(s, th)
	if requested == "" || requested == auto.Strategy {
		return auto
	}
	// Critical conditions are mandatory; a caller request cannot relax them.
	if auto.Strategy == models.StrategySafe && auto.Deviation == models.DeviationHigh {
		return auto
	}
	switch requested {
	case models.StrategySafe:
		return models.RouteStrategy{
			Strategy:  models.StrategySafe,
			Deviation: models.DeviationMedium,
			Reason:    "safe routing requested by caller",
		}
	case models.StrategyFuel:
		return models.RouteStrategy{
			Strategy:  models.StrategyFuel,
			Deviation: models.DeviationLow,
			Reason:    "fuel-efficient routing requested by caller",
		}
	default:
		return models.RouteStrategy{
			Strategy:  models.StrategyOptimal,
			Deviation: models.DeviationNone,
			Reason:    "direct routing requested by caller",
		}
	}
}
