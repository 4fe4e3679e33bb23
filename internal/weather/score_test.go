package weather

import (
	"math"
	"testing"

	"github.com/searoute/searoute/internal/models"
)

func TestScore_Bounds(t *testing.T) {
	nan := models.UnknownField()

	tests := []struct {
		name   string
		sample models.WeatherSample
	}{
		{"calm", models.WeatherSample{Temperature: 20, WindSpeed: 4, WaveHeight: 0.5, Visibility: 15000}},
		{"hurricane", models.WeatherSample{Temperature: 28, WindSpeed: 90, WaveHeight: 12, Visibility: 200, Precipitation: 40, WeatherCode: 99}},
		{"all missing", models.WeatherSample{Temperature: nan, WindSpeed: nan, WaveHeight: nan, Visibility: nan, Precipitation: nan}},
		{"negative garbage", models.WeatherSample{Temperature: -80, WindSpeed: -5, WaveHeight: -3, Visibility: -100, Precipitation: -2}},
		{"infinities", models.WeatherSample{Temperature: math.Inf(1), WindSpeed: math.Inf(1), WaveHeight: math.Inf(-1), Visibility: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Score(tt.sample)
			if a.Safety < 0 || a.Safety > 100 {
				t.Errorf("Safety = %v, want within [0,100]", a.Safety)
			}
			if a.FuelEfficiency < 0 || a.FuelEfficiency > 100 {
				t.Errorf("FuelEfficiency = %v, want within [0,100]", a.FuelEfficiency)
			}
			if a.Cost < 1 || a.Cost > 10 {
				t.Errorf("Cost = %v, want within [1,10]", a.Cost)
			}
		})
	}
}

func TestScore_MissingFieldsUseNeutralDefaults(t *testing.T) {
	nan := models.UnknownField()
	missing := Score(models.WeatherSample{
		Temperature: nan, WindSpeed: nan, WaveHeight: nan,
		Visibility: nan, Precipitation: nan,
	})

	// Neutral defaults are mid-range: the result must be benign, not
	// zeroed out or maximal.
	if missing.Safety < 80 {
		t.Errorf("all-missing sample Safety = %v, want benign (>= 80)", missing.Safety)
	}
	if missing.FuelEfficiency < 80 {
		t.Errorf("all-missing sample FuelEfficiency = %v, want benign (>= 80)", missing.FuelEfficiency)
	}
	if missing.Cost > 3 {
		t.Errorf("all-missing sample Cost = %v, want low", missing.Cost)
	}
}

func TestScore_PenaltyLadders(t *testing.T) {
	base := models.WeatherSample{Temperature: 18, WindSpeed: 4, WaveHeight: 0.5, Visibility: 15000}

	severe := base
	severe.WindSpeed = 30
	if Score(severe).Safety >= Score(base).Safety {
		t.Error("severe wind did not reduce safety")
	}

	rough := base
	rough.WaveHeight = 5
	if Score(rough).Safety >= Score(base).Safety {
		t.Error("rough seas did not reduce safety")
	}

	fog := base
	fog.Visibility = 500
	if Score(fog).Safety >= Score(base).Safety {
		t.Error("low visibility did not reduce safety")
	}

	storm := base
	storm.WeatherCode = 95
	if Score(storm).Safety >= Score(base).Safety {
		t.Error("thunderstorm code did not reduce safety")
	}

	// Becalmed conditions penalize fuel, not safety.
	becalmed := base
	becalmed.WindSpeed = 1
	if Score(becalmed).FuelEfficiency >= Score(base).FuelEfficiency {
		t.Error("becalmed wind did not reduce fuel efficiency")
	}
	if Score(becalmed).Safety != Score(base).Safety {
		t.Error("becalmed wind changed safety")
	}

	cold := base
	cold.Temperature = -10
	hot := base
	hot.Temperature = 40
	if c, h := Score(cold).FuelEfficiency, Score(hot).FuelEfficiency; c >= h {
		t.Errorf("cold should penalize fuel more than heat: cold %v, hot %v", c, h)
	}
}

func TestCostBucket(t *testing.T) {
	tests := []struct {
		name         string
		safety, fuel float64
		want         int
	}{
		{"perfect", 100, 100, 1},
		{"avg exactly 90", 90, 90, 1},
		{"avg just below 90", 89, 89, 2},
		{"avg 55", 50, 60, 5},
		{"avg below 10", 5, 5, 10},
		{"zero", 0, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := costBucket(tt.safety, tt.fuel); got != tt.want {
				t.Errorf("costBucket(%v, %v) = %d, want %d", tt.safety, tt.fuel, got, tt.want)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	sample := models.WeatherSample{Temperature: 12, WindSpeed: 22, WaveHeight: 3.1, Visibility: 6000, Precipitation: 2}
	first := Score(sample)
	for i := 0; i < 10; i++ {
		if got := Score(sample); got != first {
			t.Fatalf("Score not deterministic: %+v vs %+v", got, first)
		}
	}
}
