//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/oregon-fire-report/internal/adapter/kafka"
	"github.com/couchcryptid/oregon-fire-report/internal/config"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

const testTopic = "test-oregon-fires"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("oregon-fire-report"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

func cleanFires(t *testing.T) []domain.FireRecord {
	t.Helper()
	raw := []domain.FireRecord{
		{ID: "fire-1", FireName: "ODF / BISCUIT", FireYear: 2002, Area: domain.AreaSouthern, SizeClass: domain.SizeG,
			Cause: domain.CauseLightning, EstTotalAcres: 499945, Latitude: 42.31, Longitude: -123.77},
		{ID: "fire-2", FireName: "Camp", FireYear: 2022, Area: domain.AreaNorthern, SizeClass: domain.SizeA,
			Cause: domain.CauseHuman, EstTotalAcres: math.NaN(), Latitude: 45.2, Longitude: -122.9},
		{ID: "fire-3", FireName: "Cedar", FireYear: 2022, Area: domain.AreaNorthern, SizeClass: domain.SizeA,
			Cause: domain.CauseHuman, EstTotalAcres: 0.2, Latitude: 45.1, Longitude: -122.8},
	}
	clean, err := domain.Clean(raw)
	require.NoError(t, err)
	return clean.Records
}

// TestPublishRoundTrip publishes cleaned records through the Kafka adapter and
// reads them back with a plain consumer.
func TestPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	at := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic, BatchSize: 2}
	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, metrics, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	fires := cleanFires(t)
	require.NoError(t, report.Publish(ctx, fires, writer, report.DefaultBackoff, discardLogger()))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := make(map[string]domain.FireRecord)
	for range fires {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read published record")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		var fire domain.FireRecord
		require.NoError(t, json.Unmarshal(msg.Value, &fire))
		assert.Equal(t, fire.ID, string(msg.Key))
		assert.Equal(t, fire.SizeClass.String(), headers["size_class"])
		assert.Equal(t, at.Format(time.RFC3339), headers["processed_at"])
		got[fire.ID] = fire
	}

	require.Len(t, got, 3)
	camp := got["fire-2"]
	assert.True(t, camp.AcresImputed)
	assert.InDelta(t, 0.2, camp.EstTotalAcres, 1e-9)
	assert.Equal(t, domain.AreaNorthern, camp.Area)
	assert.True(t, at.Equal(camp.ProcessedAt))
}
