// Package domain models current-conditions weather readings and the cyclone
// risk score derived from them.
//
// # Data Source
//
// Readings come from a current-conditions weather provider (WeatherAPI.com in
// production) queried by a free-text location string, or directly from API
// callers who already hold the four measurements. Both arrive as a [Reading]
// whose fields may be missing.
//
// # Defaults
//
// The scorer never sees a missing field. [Reading.Sample] fills gaps with the
// documented defaults before scoring:
//
//	temperature  25 °C
//	wind          0 kph
//	pressure   1013 mb
//	humidity     50 %
//
// The names of the substituted fields are reported alongside the assessment so
// a presentation layer can flag them.
//
// # Risk Scoring
//
// [Assess] turns an [ObservationSample] into four normalized factors:
//
//	wind      min(wind_kph / 120, 1)
//	pressure  (1013 - pressure_mb) / 50, floored at 0
//	thermal   (temp_c - 26) / 10 above 26 °C, else 0
//	moisture  humidity_pct / 100
//
// Each factor is clamped to [0, 1] so that malformed or extreme upstream
// values cannot push the probability outside [0, 1]. The probability is the
// fixed weighted sum 0.3·wind + 0.3·pressure + 0.2·thermal + 0.2·moisture.
//
// Tiers use half-open bins, lower bound inclusive:
//
//	[0.0, 0.2)  Low        #2ecc71
//	[0.2, 0.4)  Moderate   #f39c12
//	[0.4, 0.6)  High       #e74c3c
//	[0.6, 0.8)  Very High  #8e44ad
//	[0.8, 1.0]  Extreme    #2c3e50
//
// The score is a presentation heuristic, not a cyclone model. It carries no
// track, intensity or ensemble information.
package domain
