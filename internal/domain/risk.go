package domain

import "math"

// Factor names one normalized contribution to the risk probability.
type Factor string

const (
	FactorWind     Factor = "wind"
	FactorPressure Factor = "pressure"
	FactorThermal  Factor = "thermal"
	FactorMoisture Factor = "moisture"
)

// FactorBreakdown maps each factor to its normalized value in [0, 1].
type FactorBreakdown map[Factor]float64

// Tier is a discrete risk label.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
	TierVeryHigh Tier = "Very High"
	TierExtreme  Tier = "Extreme"
)

// TierBand is one row of the tier table. Lower is inclusive, Upper exclusive.
type TierBand struct {
	Tier  Tier    `json:"tier"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Color string  `json:"color"`
}

// RiskAssessment is the scored result for one ObservationSample.
type RiskAssessment struct {
	Probability float64         `json:"probability"`
	Tier        Tier            `json:"tier"`
	Color       string          `json:"color"`
	Factors     FactorBreakdown `json:"factors"`
}

const (
	windWeight     = 0.3
	pressureWeight = 0.3
	thermalWeight  = 0.2
	moistureWeight = 0.2

	windCeilingKph    = 120.0
	referencePressure = 1013.0
	pressureSpanMb    = 50.0
	thermalOnsetC     = 26.0
	thermalSpanC      = 10.0
)

var tierBands = []TierBand{
	{Tier: TierLow, Lower: 0, Upper: 0.2, Color: "#2ecc71"},
	{Tier: TierModerate, Lower: 0.2, Upper: 0.4, Color: "#f39c12"},
	{Tier: TierHigh, Lower: 0.4, Upper: 0.6, Color: "#e74c3c"},
	{Tier: TierVeryHigh, Lower: 0.6, Upper: 0.8, Color: "#8e44ad"},
	{Tier: TierExtreme, Lower: 0.8, Upper: 1.0, Color: "#2c3e50"},
}

// Assess scores a complete sample. It is pure and safe for concurrent use.
func Assess(s ObservationSample) RiskAssessment {
	wind := clamp01(s.WindSpeedKph / windCeilingKph)
	pressure := clamp01((referencePressure - s.PressureMb) / pressureSpanMb)
	thermal := 0.0
	if s.TemperatureC > thermalOnsetC {
		thermal = clamp01((s.TemperatureC - thermalOnsetC) / thermalSpanC)
	}
	moisture := clamp01(s.HumidityPercent / 100)

	p := windWeight*wind + pressureWeight*pressure + thermalWeight*thermal + moistureWeight*moisture
	band := TierFor(p)

	return RiskAssessment{
		Probability: p,
		Tier:        band.Tier,
		Color:       band.Color,
		Factors: FactorBreakdown{
			FactorWind:     wind,
			FactorPressure: pressure,
			FactorThermal:  thermal,
			FactorMoisture: moisture,
		},
	}
}

// TierFor returns the first band whose range contains p. Values at or above
// 1.0 map to Extreme; values below 0 map to Low.
func TierFor(p float64) TierBand {
	for _, b := range tierBands {
		if p < b.Upper {
			return b
		}
	}
	return tierBands[len(tierBands)-1]
}

// Tiers returns the ordered tier table.
func Tiers() []TierBand {
	out := make([]TierBand, len(tierBands))
	copy(out, tierBands)
	return out
}

// Weights returns the fixed factor weights. They sum to 1.
func Weights() map[Factor]float64 {
	return map[Factor]float64{
		FactorWind:     windWeight,
		FactorPressure: pressureWeight,
		FactorThermal:  thermalWeight,
		FactorMoisture: moistureWeight,
	}
}

// WeightedSum recomputes the probability from a breakdown in the same order
// Assess uses.
func (f FactorBreakdown) WeightedSum() float64 {
	return windWeight*f[FactorWind] + pressureWeight*f[FactorPressure] +
		thermalWeight*f[FactorThermal] + moistureWeight*f[FactorMoisture]
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
