package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/config"
	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 11, 30, 6, 0, 0, 0, time.UTC)
	wind := 61.2
	report := domain.CityReport{
		ID:           "rep-1",
		Location:     domain.Location{Query: "Chennai", Name: "Chennai"},
		AssessedAt:   now,
		ScoredSample: domain.ScoreReading(domain.Reading{WindSpeedKph: &wind}),
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("Chennai"), msg.Key)
	assert.Contains(t, string(msg.Value), `"id":"rep-1"`)
	assert.Contains(t, string(msg.Value), `"wind_speed_kph":61.2`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "risk_tier", msg.Headers[0].Key)
	assert.Equal(t, []byte(report.Assessment.Tier), msg.Headers[0].Value)
	assert.Equal(t, "assessed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestNewWriter_UsesReportTopic(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaReportTopic: "cyclone-risk-reports"}

	w := NewWriter(cfg, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "cyclone-risk-reports", w.writer.Topic)
}

func TestLoadBatch_EmptyIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaReportTopic: "t"}, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
