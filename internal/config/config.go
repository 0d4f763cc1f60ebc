package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// WeatherAPI.com current-conditions provider.
	WeatherAPIKey    string
	WeatherEnabled   bool
	WeatherBaseURL   string
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration

	// Gemini text generation (OpenAI-compatible endpoint).
	GeminiAPIKey  string
	GeminiEnabled bool
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Report publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaReportTopic   string
	BatchSize          int
	BatchFlushInterval time.Duration
	ReportQueueSize    int

	WeatherLabURL   string
	PreviewImageURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	geminiTimeout, err := parsePositiveDuration("GEMINI_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	weatherKey := os.Getenv("WEATHER_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherAPIKey:    weatherKey,
		WeatherEnabled:   parseFlag("WEATHER_ENABLED", weatherKey != ""),
		WeatherBaseURL:   sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: parsePositiveInt("WEATHER_CACHE_SIZE", 1000),
		WeatherCacheTTL:  weatherCacheTTL,

		GeminiAPIKey:  geminiKey,
		GeminiEnabled: parseFlag("GEMINI_ENABLED", geminiKey != ""),
		GeminiModel:   sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: sharedcfg.EnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		GeminiTimeout: geminiTimeout,

		KafkaEnabled:       parseFlag("KAFKA_ENABLED", false),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic:   sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "cyclone-risk-reports"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ReportQueueSize:    parsePositiveInt("REPORT_QUEUE_SIZE", 1024),

		WeatherLabURL:   sharedcfg.EnvOrDefault("WEATHER_LAB_URL", "https://goo.gle/4l9hsiJ"),
		PreviewImageURL: sharedcfg.EnvOrDefault("WEATHER_LAB_PREVIEW_URL", "https://storage.googleapis.com/gweb-uniblog-publish-prod/images/Weather-Lab-Launch-Screenshot-1.max-1000x1000.png"),
	}

	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_ENABLED is true but WEATHER_API_KEY is not set")
	}
	if cfg.GeminiEnabled && cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_ENABLED is true but GEMINI_API_KEY is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// parseFlag returns def unless the variable is set, in which case only "true" enables it.
func parseFlag(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}
