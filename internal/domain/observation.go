package domain

import "time"

// Documented substitutes for fields a provider did not report.
const (
	DefaultTemperatureC    = 25.0
	DefaultWindSpeedKph    = 0.0
	DefaultPressureMb      = 1013.0
	DefaultHumidityPercent = 50.0
)

// ObservationSample is the complete four-field snapshot the scorer requires.
type ObservationSample struct {
	WindSpeedKph    float64 `json:"wind_speed_kph"`
	PressureMb      float64 `json:"pressure_mb"`
	HumidityPercent float64 `json:"humidity_percent"`
	TemperatureC    float64 `json:"temperature_c"`
}

// Reading is a possibly incomplete set of measurements. Nil means the
// provider (or API caller) did not supply the field.
type Reading struct {
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	WindSpeedKph    *float64 `json:"wind_speed_kph,omitempty"`
	PressureMb      *float64 `json:"pressure_mb,omitempty"`
	HumidityPercent *float64 `json:"humidity_percent,omitempty"`
}

// Sample resolves the reading into a complete ObservationSample, substituting
// defaults for missing fields. The second return value lists the JSON names of
// the defaulted fields in a stable order.
func (r Reading) Sample() (ObservationSample, []string) {
	var defaulted []string
	pick := func(v *float64, def float64, name string) float64 {
		if v == nil {
			defaulted = append(defaulted, name)
			return def
		}
		return *v
	}

	s := ObservationSample{
		TemperatureC:    pick(r.TemperatureC, DefaultTemperatureC, "temperature_c"),
		WindSpeedKph:    pick(r.WindSpeedKph, DefaultWindSpeedKph, "wind_speed_kph"),
		PressureMb:      pick(r.PressureMb, DefaultPressureMb, "pressure_mb"),
		HumidityPercent: pick(r.HumidityPercent, DefaultHumidityPercent, "humidity_percent"),
	}
	return s, defaulted
}

// Location describes the place a provider resolved a query to.
type Location struct {
	Query   string  `json:"query"`
	Name    string  `json:"name,omitempty"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// DisplayName joins the non-empty name parts, e.g. "Chennai, Tamil Nadu, India".
func (l Location) DisplayName() string {
	out := ""
	for _, part := range []string{l.Name, l.Region, l.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	if out == "" {
		return l.Query
	}
	return out
}

// CurrentConditions is a provider's answer for one location query.
type CurrentConditions struct {
	Location   Location  `json:"location"`
	Reading    Reading   `json:"reading"`
	Condition  string    `json:"condition,omitempty"` // e.g. "Partly cloudy"
	ObservedAt time.Time `json:"observed_at,omitzero"`
}
