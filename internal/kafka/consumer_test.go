package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"lesson-market/internal/models"
)

func testOrderMessage(t *testing.T, event models.OrderPlaced, headerType string) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	msg := kafka.Message{Topic: "orders", Key: []byte(event.OrderID), Value: data}
	if headerType != "" {
		msg.Headers = []kafka.Header{{Key: eventTypeHeader, Value: []byte(headerType)}}
	}
	return msg
}

func TestDecodeOrderPlaced(t *testing.T) {
	placed := models.OrderPlaced{
		EventID:   "e-1",
		Type:      models.OrderPlacedEvent,
		OrderID:   "65a1f0c2b4d3e2a1f0c2b4d3",
		Name:      "Jo",
		Phone:     "123",
		Items:     []any{"Math"},
		ItemCount: 1,
		PlacedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	t.Run("order event", func(t *testing.T) {
		got, err := decodeOrderPlaced(testOrderMessage(t, placed, models.OrderPlacedEvent))
		require.NoError(t, err)
		assert.Equal(t, placed, got)
	})

	t.Run("missing header falls back to body type", func(t *testing.T) {
		got, err := decodeOrderPlaced(testOrderMessage(t, placed, ""))
		require.NoError(t, err)
		assert.Equal(t, placed.OrderID, got.OrderID)
	})

	t.Run("foreign header", func(t *testing.T) {
		_, err := decodeOrderPlaced(testOrderMessage(t, placed, "lesson.updated"))
		assert.ErrorIs(t, err, errForeignEvent)
	})

	t.Run("foreign body type", func(t *testing.T) {
		other := placed
		other.Type = "order.cancelled"
		_, err := decodeOrderPlaced(testOrderMessage(t, other, ""))
		assert.ErrorIs(t, err, errForeignEvent)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := decodeOrderPlaced(kafka.Message{Value: []byte("{not json")})
		require.Error(t, err)
		assert.NotErrorIs(t, err, errForeignEvent)
	})
}

func TestConsumer_Process(t *testing.T) {
	c := &Consumer{group: "test", tracer: tracenoop.NewTracerProvider().Tracer("test")}
	ctx := context.Background()
	event := models.OrderPlaced{Type: models.OrderPlacedEvent, OrderID: "o-1", ItemCount: 2}

	t.Run("handled event", func(t *testing.T) {
		var seen []string
		err := c.process(ctx, testOrderMessage(t, event, models.OrderPlacedEvent), func(_ context.Context, e models.OrderPlaced) error {
			seen = append(seen, e.OrderID)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"o-1"}, seen)
	})

	t.Run("handler failure is returned", func(t *testing.T) {
		handlerErr := errors.New("handler failed")
		err := c.process(ctx, testOrderMessage(t, event, models.OrderPlacedEvent), func(context.Context, models.OrderPlaced) error {
			return handlerErr
		})
		assert.ErrorIs(t, err, handlerErr)
	})

	t.Run("foreign event is skipped", func(t *testing.T) {
		err := c.process(ctx, testOrderMessage(t, event, "lesson.updated"), func(context.Context, models.OrderPlaced) error {
			t.Fatal("foreign events must not reach the handler")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("undecodable message is skipped", func(t *testing.T) {
		err := c.process(ctx, kafka.Message{Value: []byte("nope")}, func(context.Context, models.OrderPlaced) error {
			t.Fatal("undecodable events must not reach the handler")
			return nil
		})
		assert.NoError(t, err)
	})
}
