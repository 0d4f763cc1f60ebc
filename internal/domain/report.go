package domain

import (
	"fmt"
	"strings"
	"time"
)

// ScoredSample is a reading resolved to a complete sample and scored.
type ScoredSample struct {
	Sample     ObservationSample `json:"sample"`
	Defaulted  []string          `json:"defaulted,omitempty"`
	Assessment RiskAssessment    `json:"assessment"`
}

// ScoreReading applies defaults to a reading and assesses the result.
func ScoreReading(r Reading) ScoredSample {
	sample, defaulted := r.Sample()
	return ScoredSample{
		Sample:     sample,
		Defaulted:  defaulted,
		Assessment: Assess(sample),
	}
}

// CityReport is the response to a single location lookup.
type CityReport struct {
	ID            string    `json:"id"`
	Location      Location  `json:"location"`
	Condition     string    `json:"condition,omitempty"`
	ObservedAt    time.Time `json:"observed_at,omitzero"`
	RequestNumber int64     `json:"request_number"`
	AssessedAt    time.Time `json:"assessed_at"`

	ScoredSample
}

// NewCityReport scores provider conditions and stamps the report with the
// current time.
func NewCityReport(id string, cond CurrentConditions, requestNumber int64) CityReport {
	return CityReport{
		ID:            id,
		Location:      cond.Location,
		Condition:     cond.Condition,
		ObservedAt:    cond.ObservedAt,
		RequestNumber: requestNumber,
		AssessedAt:    clock.Now().UTC(),
		ScoredSample:  ScoreReading(cond.Reading),
	}
}

// Summary renders the report as plain text suitable for an LLM prompt.
func (r CityReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s\n", r.Location.DisplayName())
	if r.Condition != "" {
		fmt.Fprintf(&b, "Condition: %s\n", r.Condition)
	}
	fmt.Fprintf(&b, "Temperature: %.1f C\n", r.Sample.TemperatureC)
	fmt.Fprintf(&b, "Wind: %.1f kph\n", r.Sample.WindSpeedKph)
	fmt.Fprintf(&b, "Pressure: %.1f mb\n", r.Sample.PressureMb)
	fmt.Fprintf(&b, "Humidity: %.0f%%\n", r.Sample.HumidityPercent)
	fmt.Fprintf(&b, "Cyclone risk: %s (%.2f)\n", r.Assessment.Tier, r.Assessment.Probability)
	if len(r.Defaulted) > 0 {
		fmt.Fprintf(&b, "Defaulted fields: %s\n", strings.Join(r.Defaulted, ", "))
	}
	return b.String()
}

// Links points presentation layers at external resources.
type Links struct {
	WeatherLabURL   string `json:"weather_lab_url"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
}
