// Command assess scores weather conditions offline and prints the result as
// JSON. Flags that are not given fall back to the standard defaults.
//
// Usage:
//
//	go run ./cmd/assess -wind 150 -pressure 960 -humidity 95 -temp 30
//	WEATHER_API_KEY=... go run ./cmd/assess -city Chennai
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/cyclone-risk-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/cyclone-risk-service/internal/config"
	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/google/uuid"
)

func main() {
	wind := flag.Float64("wind", domain.DefaultWindSpeedKph, "wind speed in km/h")
	pressure := flag.Float64("pressure", domain.DefaultPressureMb, "surface pressure in millibars")
	humidity := flag.Float64("humidity", domain.DefaultHumidityPercent, "relative humidity in percent")
	temp := flag.Float64("temp", domain.DefaultTemperatureC, "air temperature in Celsius")
	city := flag.String("city", "", "look up current conditions for a city (requires WEATHER_API_KEY)")
	flag.Parse()

	var out any
	if *city != "" {
		report, err := lookup(*city)
		if err != nil {
			fmt.Fprintf(os.Stderr, "assess: %v\n", err)
			os.Exit(1)
		}
		out = report
	} else {
		out = domain.ScoreReading(readingFromFlags(map[string]*float64{
			"wind":     wind,
			"pressure": pressure,
			"humidity": humidity,
			"temp":     temp,
		}))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "assess: %v\n", err)
		os.Exit(1)
	}
}

// readingFromFlags keeps only explicitly set flags so the rest are reported
// as defaulted.
func readingFromFlags(values map[string]*float64) domain.Reading {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	pick := func(name string) *float64 {
		if set[name] {
			return values[name]
		}
		return nil
	}
	return domain.Reading{
		WindSpeedKph:    pick("wind"),
		PressureMb:      pick("pressure"),
		HumidityPercent: pick("humidity"),
		TemperatureC:    pick("temp"),
	}
}

func lookup(city string) (domain.CityReport, error) {
	cfg, err := config.Load()
	if err != nil {
		return domain.CityReport{}, err
	}
	if cfg.WeatherAPIKey == "" {
		return domain.CityReport{}, domain.ErrWeatherDisabled
	}

	logger := observability.NewCommandLogger(cfg, os.Stderr)
	client := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, observability.NewUnregisteredMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WeatherTimeout)
	defer cancel()

	cond, err := client.CurrentConditions(ctx, city)
	if err != nil {
		return domain.CityReport{}, err
	}
	return domain.NewCityReport(uuid.NewString(), cond, 1), nil
}
