package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/skyglow/horizon-events/internal/config"
	"github.com/skyglow/horizon-events/internal/wire"
)

// Writer publishes horizon-event records to a Kafka topic.
// It implements scheduler.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, clock: clockwork.NewRealClock()}
}

// Publish serializes and writes one record. Records for the same location key
// to the same partition, preserving per-location ordering.
func (w *Writer) Publish(ctx context.Context, rec wire.Record, source string) error {
	msg, err := serializeToMessage(rec, source, w.clock.Now())
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message with provenance
// headers.
func serializeToMessage(rec wire.Record, source string, now time.Time) (kafkago.Message, error) {
	data, err := rec.Marshal()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	key := fmt.Sprintf("%d:%d", rec.LatE6, rec.LonE6)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "computed_at", Value: []byte(now.UTC().Format(time.RFC3339))},
		},
	}, nil
}
