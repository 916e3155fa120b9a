//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/skyglow/horizon-events/internal/adapter/ephemeris"
	kafkaadapter "github.com/skyglow/horizon-events/internal/adapter/kafka"
	"github.com/skyglow/horizon-events/internal/config"
	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/fallback"
	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/reconcile"
	"github.com/skyglow/horizon-events/internal/scheduler"
	"github.com/skyglow/horizon-events/internal/wire"
)

const testSinkTopic = "test-horizon-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic on the controller broker.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func readRecord(ctx context.Context, t *testing.T, consumer *kafkago.Reader) (wire.Record, map[string]string) {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	rec, err := wire.Unmarshal(msg.Value)
	require.NoError(t, err, "unmarshal sink message")
	return rec, headers
}

// TestWriterRoundTrip verifies the Kafka writer publishes records that a
// plain consumer can decode, with provenance headers intact.
func TestWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	rec := wire.Record{
		LatE6:          35_467_600,
		LonE6:          -97_516_400,
		UTCOffsetMin:   -360,
		SunState:       0,
		SunriseMinute:  420,
		SunsetMinute:   1190,
		MoonState:      0,
		MoonriseMinute: 100,
		MoonsetMinute:  900,
		MoonPhaseE6:    250_000,
	}
	require.NoError(t, writer.Publish(ctx, rec, "precision_remote"))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got, headers := readRecord(ctx, t, consumer)
	assert.Equal(t, rec, got)
	assert.Equal(t, "precision_remote", headers["source"])
	_, err := time.Parse(time.RFC3339, headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")
}

// TestSchedulerToKafkaEndToEnd wires the scheduler with the in-process solver
// and the real Kafka writer, then verifies a computed record lands on the
// sink topic.
func TestSchedulerToKafkaEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	queue := scheduler.NewSendQueue(writer, 30*time.Second, discardLogger(), metrics)
	tracker := reconcile.New(reconcile.DefaultConfig())

	source := ephemeris.NewLocal(-0.3)
	sched := scheduler.New(scheduler.Config{
		PollInterval:    time.Second,
		RefreshInterval: time.Hour,
		RetryInterval:   time.Minute,
		FetchTimeout:    10 * time.Second,
	}, tracker, source, fallback.SunEvents, queue, discardLogger(), metrics)

	schedCtx, schedCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run(schedCtx) }()

	loc := domain.NewGeoLocation(35.4676, -97.5164, -360)
	require.NoError(t, sched.UpdateLocation(loc))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	rec, headers := readRecord(ctx, t, consumer)

	schedCancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, loc.LatE6, rec.LatE6)
	assert.Equal(t, loc.LonE6, rec.LonE6)
	assert.Equal(t, 0, rec.SunState, "mid-latitude day must be NORMAL")
	assert.NotEqual(t, rec.SunriseMinute, rec.SunsetMinute)
	assert.Equal(t, "precision_remote", headers["source"])
}
