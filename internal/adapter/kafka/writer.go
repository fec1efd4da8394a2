package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/oregon-fire-report/internal/config"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes cleaned fire records to a Kafka topic.
// It implements report.Publisher.
type Writer struct {
	writer    messageWriter
	batchSize int
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, batchSize: cfg.BatchSize, metrics: metrics, logger: logger}
}

// LoadBatch serializes fire records and publishes them in chunks of the
// configured batch size. Records are keyed by ID so re-publishing the same
// data lands on the same partitions.
func (w *Writer) LoadBatch(ctx context.Context, fires []domain.FireRecord) error {
	size := w.batchSize
	if size <= 0 {
		size = len(fires)
	}
	for start := 0; start < len(fires); start += size {
		end := min(start+size, len(fires))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, f := range fires[start:end] {
			msg, err := serializeToMessage(f)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write batch at record %d: %w", start, err)
		}
		w.metrics.RecordsPublished.Add(float64(len(msgs)))
		w.logger.Debug("batch published", "records", len(msgs), "offset", start)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FireRecord into a Kafka message.
func serializeToMessage(fire domain.FireRecord) (kafkago.Message, error) {
	data, err := json.Marshal(fire)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize fire record %s: %w", fire.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(fire.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "size_class", Value: []byte(fire.SizeClass.String())},
			{Key: "processed_at", Value: []byte(fire.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
