package kafka_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/event"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/kafka"
	pkgkafka "github.com/bibbank/bib/services/amortization-service/pkg/kafka"
)

type recordingProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (r *recordingProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	r.topic = topic
	r.messages = append(r.messages, messages...)
	return r.err
}

func scheduleEvent() event.ScheduleCalculated {
	return event.NewScheduleCalculated("calc-001", "tenant-001",
		decimal.NewFromInt(10000), "EQUAL_INSTALLMENTS", "SIMPLE_DAILY",
		12, decimal.RequireFromString("271.75"), decimal.RequireFromString("10271.75"),
		decimal.RequireFromString("5.1162"), "", 0)
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("writes one keyed message per event", func(t *testing.T) {
		producer := &recordingProducer{}
		publisher := kafka.NewKafkaEventPublisher(producer, "bib.amortization.events", logger)

		evt := scheduleEvent()
		require.NoError(t, publisher.Publish(context.Background(), evt))

		assert.Equal(t, "bib.amortization.events", producer.topic)
		require.Len(t, producer.messages, 1)
		msg := producer.messages[0]
		assert.Equal(t, "calc-001", string(msg.Key))
		assert.Equal(t, event.TypeScheduleCalculated, msg.Headers["event_type"])
		assert.Equal(t, evt.EventID(), msg.Headers["event_id"])
		assert.Equal(t, "tenant-001", msg.Headers["tenant_id"])

		var payload map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &payload))
		assert.Equal(t, "calc-001", payload["aggregate_id"])
		assert.Equal(t, "5.1162", payload["apr"])
		assert.EqualValues(t, 12, payload["payment_count"])
	})

	t.Run("no events is a no-op", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("must not be called")}
		publisher := kafka.NewKafkaEventPublisher(producer, "topic", logger)

		require.NoError(t, publisher.Publish(context.Background()))
		assert.Empty(t, producer.topic)
	})

	t.Run("wraps producer errors", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("leader not available")}
		publisher := kafka.NewKafkaEventPublisher(producer, "topic", logger)

		err := publisher.Publish(context.Background(), scheduleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "topic topic")
	})
}

func TestLogEventPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	publisher := kafka.NewLogEventPublisher(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, publisher.Publish(context.Background(), scheduleEvent()))
	assert.Contains(t, buf.String(), event.TypeScheduleCalculated)
	assert.Contains(t, buf.String(), "calc-001")
}
