package route

import (
	"math"
	"testing"

	"github.com/searoute/searoute/internal/models"
	"github.com/searoute/searoute/internal/weather"
)

func benignSurvey() conditionsSurvey {
	return conditionsSurvey{
		meanSafety: 90,
		meanFuel:   95,
		maxWindKts: 10,
		maxWaveM:   1,
		minVisM:    10000,
		samples:    20,
	}
}

func TestSelectStrategy_Ladder(t *testing.T) {
	th := weather.DefaultThresholds() // maxWind 25, minVis 2000, maxWave 4, factor 1.2

	tests := []struct {
		name          string
		mutate        func(*conditionsSurvey)
		wantStrategy  models.Strategy
		wantDeviation models.Deviation
	}{
		{
			name:          "benign is optimal",
			mutate:        func(s *conditionsSurvey) {},
			wantStrategy:  models.StrategyOptimal,
			wantDeviation: models.DeviationNone,
		},
		{
			// Wind 31 kt clears 1.2 x 25 = 30 unambiguously.
			name:          "critical wind forces safe high",
			mutate:        func(s *conditionsSurvey) { s.maxWindKts = 31; s.minVisM = 1000; s.maxWaveM = 2 },
			wantStrategy:  models.StrategySafe,
			wantDeviation: models.DeviationHigh,
		},
		{
			name:          "critical visibility forces safe high",
			mutate:        func(s *conditionsSurvey) { s.minVisM = 900 },
			wantStrategy:  models.StrategySafe,
			wantDeviation: models.DeviationHigh,
		},
		{
			name:          "critical waves force safe high",
			mutate:        func(s *conditionsSurvey) { s.maxWaveM = 5 },
			wantStrategy:  models.StrategySafe,
			wantDeviation: models.DeviationHigh,
		},
		{
			name:          "low safety picks safe medium",
			mutate:        func(s *conditionsSurvey) { s.meanSafety = 55 },
			wantStrategy:  models.StrategySafe,
			wantDeviation: models.DeviationMedium,
		},
		{
			name:          "low fuel economy picks fuel low",
			mutate:        func(s *conditionsSurvey) { s.meanFuel = 65 },
			wantStrategy:  models.StrategyFuel,
			wantDeviation: models.DeviationLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := benignSurvey()
			tt.mutate(&s)
			got := selectStrategy(s, th)
			if got.Strategy != tt.wantStrategy || got.Deviation != tt.wantDeviation {
				t.Errorf("selectStrategy = %s/%s, want %s/%s", got.Strategy, got.Deviation, tt.wantStrategy, tt.wantDeviation)
			}
			if got.Reason == "" {
				t.Error("strategy has no reason")
			}
		})
	}
}

func TestSelectStrategy_Deterministic(t *testing.T) {
	th := weather.DefaultThresholds()
	s := benignSurvey()
	s.maxWindKts = 27
	s.meanSafety = 58

	first := selectStrategy(s, th)
	for i := 0; i < 10; i++ {
		if got := selectStrategy(s, th); got != first {
			t.Fatalf("selectStrategy not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestSelectStrategy_TunableCriticalFactor(t *testing.T) {
	th := weather.DefaultThresholds()
	s := benignSurvey()
	s.maxWindKts = 28 // below 1.2x25=30, above 1.0x25

	if got := selectStrategy(s, th); got.Strategy == models.StrategySafe && got.Deviation == models.DeviationHigh {
		t.Error("wind 28 kt triggered critical at factor 1.2")
	}

	th.CriticalFactor = 1.0
	if got := selectStrategy(s, th); got.Strategy != models.StrategySafe || got.Deviation != models.DeviationHigh {
		t.Errorf("wind 28 kt at factor 1.0 = %s/%s, want SAFE/HIGH", got.Strategy, got.Deviation)
	}
}

func TestStrategyFor_CallerRequestAndOverride(t *testing.T) {
	th := weather.DefaultThresholds()

	// Benign conditions honor the caller's request.
	got := strategyFor(models.StrategySafe, benignSurvey(), th)
	if got.Strategy != models.StrategySafe {
		t.Errorf("requested SAFE got %s", got.Strategy)
	}

	got = strategyFor(models.StrategyFuel, benignSurvey(), th)
	if got.Strategy != models.StrategyFuel || got.Deviation != models.DeviationLow {
		t.Errorf("requested FUEL got %s/%s", got.Strategy, got.Deviation)
	}

	// Critical conditions cannot be relaxed by request.
	critical := benignSurvey()
	critical.maxWindKts = 40
	got = strategyFor(models.StrategyOptimal, critical, th)
	if got.Strategy != models.StrategySafe || got.Deviation != models.DeviationHigh {
		t.Errorf("critical conditions with requested OPTIMAL = %s/%s, want SAFE/HIGH", got.Strategy, got.Deviation)
	}
}

func TestSurveyMerge(t *testing.T) {
	a := conditionsSurvey{meanSafety: 80, meanFuel: 90, maxWindKts: 10, maxWaveM: 1, minVisM: 9000, samples: 10}
	b := conditionsSurvey{meanSafety: 40, meanFuel: 50, maxWindKts: 30, maxWaveM: 6, minVisM: 500, samples: 10}

	m := a.merge(b)
	if m.samples != 20 {
		t.Errorf("samples = %d, want 20", m.samples)
	}
	if math.Abs(m.meanSafety-60) > 1e-9 || math.Abs(m.meanFuel-70) > 1e-9 {
		t.Errorf("means = %.1f/%.1f, want 60/70", m.meanSafety, m.meanFuel)
	}
	if m.maxWindKts != 30 || m.maxWaveM != 6 || m.minVisM != 500 {
		t.Errorf("extremes not carried: %+v", m)
	}

	empty := conditionsSurvey{minVisM: math.Inf(1)}
	if got := empty.merge(a); got.samples != 10 || got.meanSafety != 80 {
		t.Errorf("merge into empty = %+v", got)
	}
}
