package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumTolerance = 1e-9

func TestAssess_Scenarios(t *testing.T) {
	t.Run("calm defaults", func(t *testing.T) {
		a := Assess(ObservationSample{WindSpeedKph: 0, PressureMb: 1013, HumidityPercent: 50, TemperatureC: 25})

		assert.InDelta(t, 0.10, a.Probability, sumTolerance)
		assert.Equal(t, TierLow, a.Tier)
		assert.Equal(t, "#2ecc71", a.Color)
		assert.Equal(t, 0.0, a.Factors[FactorWind])
		assert.Equal(t, 0.0, a.Factors[FactorPressure])
		assert.Equal(t, 0.0, a.Factors[FactorThermal])
		assert.Equal(t, 0.5, a.Factors[FactorMoisture])
	})

	t.Run("wind clamped at 120 kph", func(t *testing.T) {
		a := Assess(ObservationSample{WindSpeedKph: 150, PressureMb: 1013, HumidityPercent: 50, TemperatureC: 25})

		assert.Equal(t, 1.0, a.Factors[FactorWind])
		assert.InDelta(t, 0.40, a.Probability, sumTolerance)
		assert.Equal(t, TierHigh, a.Tier)
		assert.Equal(t, "#e74c3c", a.Color)
	})

	t.Run("deep low with pressure factor clamped", func(t *testing.T) {
		a := Assess(ObservationSample{WindSpeedKph: 0, PressureMb: 960, HumidityPercent: 100, TemperatureC: 36})

		assert.Equal(t, 1.0, a.Factors[FactorPressure], "(1013-960)/50 = 1.06 clamps to 1")
		assert.Equal(t, 1.0, a.Factors[FactorThermal])
		assert.Equal(t, 1.0, a.Factors[FactorMoisture])
		assert.InDelta(t, 0.70, a.Probability, sumTolerance)
		assert.Equal(t, TierVeryHigh, a.Tier)
		assert.Equal(t, "#8e44ad", a.Color)
	})

	t.Run("reference pressure contributes nothing", func(t *testing.T) {
		a := Assess(ObservationSample{PressureMb: 1013})
		assert.Equal(t, 0.0, a.Factors[FactorPressure])
	})

	t.Run("high pressure floors at zero", func(t *testing.T) {
		a := Assess(ObservationSample{PressureMb: 1040})
		assert.Equal(t, 0.0, a.Factors[FactorPressure])
	})

	t.Run("thermal onset is exclusive", func(t *testing.T) {
		assert.Equal(t, 0.0, Assess(ObservationSample{TemperatureC: 26, PressureMb: 1013}).Factors[FactorThermal])
		assert.InDelta(t, 0.5, Assess(ObservationSample{TemperatureC: 31, PressureMb: 1013}).Factors[FactorThermal], sumTolerance)
	})

	t.Run("everything saturated", func(t *testing.T) {
		a := Assess(ObservationSample{WindSpeedKph: 300, PressureMb: 850, HumidityPercent: 100, TemperatureC: 45})
		assert.InDelta(t, 1.0, a.Probability, sumTolerance)
		assert.Equal(t, TierExtreme, a.Tier)
		assert.Equal(t, "#2c3e50", a.Color)
	})

	t.Run("malformed negatives clamp to zero", func(t *testing.T) {
		a := Assess(ObservationSample{WindSpeedKph: -40, PressureMb: 1013, HumidityPercent: -10, TemperatureC: 20})
		assert.Equal(t, 0.0, a.Factors[FactorWind])
		assert.Equal(t, 0.0, a.Factors[FactorMoisture])
		assert.Equal(t, 0.0, a.Probability)
		assert.Equal(t, TierLow, a.Tier)
	})
}

func TestAssess_ModerateBoundaryFromHumidity(t *testing.T) {
	// 0.2 * 100/100 lands exactly on the Low/Moderate boundary.
	a := Assess(ObservationSample{PressureMb: 1013, HumidityPercent: 100, TemperatureC: 20})
	assert.Equal(t, 0.2, a.Probability)
	assert.Equal(t, TierModerate, a.Tier)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		p     float64
		tier  Tier
		color string
	}{
		{0, TierLow, "#2ecc71"},
		{0.1999, TierLow, "#2ecc71"},
		{0.2, TierModerate, "#f39c12"},
		{0.3999, TierModerate, "#f39c12"},
		{0.4, TierHigh, "#e74c3c"},
		{0.6, TierVeryHigh, "#8e44ad"},
		{0.7999, TierVeryHigh, "#8e44ad"},
		{0.8, TierExtreme, "#2c3e50"},
		{0.9999, TierExtreme, "#2c3e50"},
		{1.0, TierExtreme, "#2c3e50"},
		{1.3, TierExtreme, "#2c3e50"},
		{-0.1, TierLow, "#2ecc71"},
	}
	for _, tt := range tests {
		band := TierFor(tt.p)
		assert.Equal(t, tt.tier, band.Tier, "p=%v", tt.p)
		assert.Equal(t, tt.color, band.Color, "p=%v", tt.p)
	}
}

func TestTiers_OrderedAndContiguous(t *testing.T) {
	bands := Tiers()
	require.Len(t, bands, 5)
	assert.Equal(t, 0.0, bands[0].Lower)
	assert.Equal(t, 1.0, bands[len(bands)-1].Upper)
	for i := 1; i < len(bands); i++ {
		assert.Equal(t, bands[i-1].Upper, bands[i].Lower)
	}

	bands[0].Color = "mutated"
	assert.Equal(t, "#2ecc71", Tiers()[0].Color, "Tiers must return a copy")
}

func TestWeights_SumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, sumTolerance)
}

func randomSample(rng *rand.Rand) ObservationSample {
	return ObservationSample{
		WindSpeedKph:    rng.Float64() * 500,
		PressureMb:      850 + rng.Float64()*250,
		HumidityPercent: rng.Float64() * 100,
		TemperatureC:    -50 + rng.Float64()*110,
	}
}

func TestAssess_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		s := randomSample(rng)
		a := Assess(s)

		require.GreaterOrEqual(t, a.Probability, 0.0, "sample %+v", s)
		require.LessOrEqual(t, a.Probability, 1.0, "sample %+v", s)

		require.Len(t, a.Factors, 4)
		for f, v := range a.Factors {
			require.GreaterOrEqual(t, v, 0.0, "factor %s", f)
			require.LessOrEqual(t, v, 1.0, "factor %s", f)
		}

		sum := 0.3*a.Factors[FactorWind] + 0.3*a.Factors[FactorPressure] +
			0.2*a.Factors[FactorThermal] + 0.2*a.Factors[FactorMoisture]
		require.InDelta(t, sum, a.Probability, sumTolerance)
		require.InDelta(t, a.Factors.WeightedSum(), a.Probability, sumTolerance)

		band := TierFor(a.Probability)
		require.Equal(t, band.Tier, a.Tier)
		require.Equal(t, band.Color, a.Color)
		if a.Probability < 1.0 {
			require.GreaterOrEqual(t, a.Probability, band.Lower)
			require.Less(t, a.Probability, band.Upper)
		}
	}
}

func TestAssess_Monotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		s := randomSample(rng)

		more := s
		more.WindSpeedKph += rng.Float64() * 100
		require.GreaterOrEqual(t, Assess(more).Probability, Assess(s).Probability,
			"raising wind lowered probability: %+v -> %+v", s, more)

		base := s
		base.PressureMb = 1013 + rng.Float64()*50
		higher := base
		higher.PressureMb += rng.Float64() * 50
		require.LessOrEqual(t, Assess(higher).Probability, Assess(base).Probability,
			"raising pressure raised probability: %+v -> %+v", base, higher)
	}
}

func TestAssess_Deterministic(t *testing.T) {
	s := ObservationSample{WindSpeedKph: 64, PressureMb: 990, HumidityPercent: 83, TemperatureC: 29.5}
	assert.Equal(t, Assess(s), Assess(s))
}
