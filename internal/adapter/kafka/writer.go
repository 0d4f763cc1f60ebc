package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/config"
	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces city reports to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// The publisher already batches; don't hold messages for another second.
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes multiple reports in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, reports []domain.CityReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d reports to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("reports published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CityReport into a Kafka message keyed by the
// location query, so reports for one city land on one partition.
func serializeToMessage(r domain.CityReport) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize city report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.Location.Query),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_tier", Value: []byte(r.Assessment.Tier)},
			{Key: "assessed_at", Value: []byte(r.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
