package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cyclone-risk-service/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/cyclone-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cyclone-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/cyclone-risk-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/cyclone-risk-service/internal/config"
	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/couchcryptid/cyclone-risk-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	counter := observability.NewRequestCounter(metrics.Requests)

	// Weather lookups (feature-flagged via WEATHER_ENABLED / WEATHER_API_KEY).
	var weather domain.WeatherProvider
	if cfg.WeatherEnabled {
		client := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
		weather = weatherapi.NewCachedProvider(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clockwork.NewRealClock(), metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("weather lookups enabled", "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL, "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("weather lookups disabled")
	}

	// AI assistant (feature-flagged via GEMINI_ENABLED / GEMINI_API_KEY).
	var insight domain.TextGenerator
	if cfg.GeminiEnabled {
		insight = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiTimeout, metrics, logger)
		metrics.InsightEnabled.Set(1)
		logger.Info("ai assistant enabled", "model", cfg.GeminiModel, "timeout", cfg.GeminiTimeout)
	} else {
		logger.Info("ai assistant disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Report publishing (feature-flagged via KAFKA_ENABLED). The publisher
	// outlives the signal context so it can take reports from requests that
	// are still draining during server shutdown.
	pubCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	var (
		sink      pipeline.ReportSink
		writer    *kafkaadapter.Writer
		published = make(chan struct{})
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher := pipeline.NewPublisher(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, cfg.ReportQueueSize)
		sink = publisher
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)

		go func() {
			defer close(published)
			if err := publisher.Run(pubCtx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	} else {
		close(published)
		logger.Info("report publishing disabled")
	}

	links := domain.Links{WeatherLabURL: cfg.WeatherLabURL, PreviewImageURL: cfg.PreviewImageURL}
	dashboard := pipeline.NewDashboard(weather, insight, sink, counter, metrics, links, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, dashboard, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	stopPublisher()
	select {
	case <-published:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete", "requests_served", counter.Count())
}
