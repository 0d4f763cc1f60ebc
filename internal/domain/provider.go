package domain

import (
	"context"
	"errors"
)

var (
	// ErrEmptyLocation is returned when a lookup is attempted without a location.
	ErrEmptyLocation = errors.New("location is required")

	// ErrLocationNotFound is returned when the provider cannot resolve a location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrWeatherDisabled is returned when no weather provider is configured.
	ErrWeatherDisabled = errors.New("weather lookups are disabled: set WEATHER_API_KEY")

	// ErrEmptyPrompt is returned when an insight is requested without a prompt.
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrInsightDisabled is returned when no text generator is configured.
	ErrInsightDisabled = errors.New("AI assistant is disabled: set GEMINI_API_KEY")

	// ErrEmptyReply is returned when the text generator answers with no text.
	ErrEmptyReply = errors.New("text generator returned an empty reply")
)

// WeatherProvider returns current conditions for a free-text location.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, location string) (CurrentConditions, error)
}

// TextGenerator turns a prompt into free-form text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
