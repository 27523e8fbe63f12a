package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"lesson-market/internal/models"
)

const eventTypeHeader = "event-type"

var errForeignEvent = errors.New("not an order.placed event")

type OrderHandler func(ctx context.Context, event models.OrderPlaced) error

// Consumer reads order events for a consumer group.
type Consumer struct {
	reader *kafka.Reader
	group  string
	tracer trace.Tracer
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       1,
			MaxBytes:       1 << 20,
			MaxWait:        500 * time.Millisecond,
			CommitInterval: time.Second,
			StartOffset:    kafka.LastOffset,
		}),
		group:  groupID,
		tracer: otel.Tracer("kafka/consumer"),
	}
}

// Listen hands every order event to handle until ctx is cancelled. Offsets
// are committed once an event is handled. A handler error stops Listen
// before the commit, so the group resumes from that event. Undecodable
// messages and other event types on the topic are committed and skipped.
func (c *Consumer) Listen(ctx context.Context, handle OrderHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.process(ctx, msg, handle); err != nil {
			return fmt.Errorf("failed to handle event at offset %d: %w", msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit offset: %w", err)
		}
	}
}

// process runs handle for msg inside a receive span. Only handler errors
// are returned.
func (c *Consumer) process(ctx context.Context, msg kafka.Message, handle OrderHandler) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, &headerCarrier{headers: &msg.Headers})
	ctx, span := c.tracer.Start(ctx, "receive "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(msg.Topic),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
			attribute.String("messaging.kafka.consumer.group", c.group),
		),
	)
	defer span.End()

	event, err := decodeOrderPlaced(msg)
	if errors.Is(err, errForeignEvent) {
		span.SetAttributes(attribute.Bool("event.skipped", true))
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("event.skipped", true))
		return nil
	}

	if err := handle(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func decodeOrderPlaced(msg kafka.Message) (models.OrderPlaced, error) {
	carrier := &headerCarrier{headers: &msg.Headers}
	if t := carrier.Get(eventTypeHeader); t != "" && t != models.OrderPlacedEvent {
		return models.OrderPlaced{}, errForeignEvent
	}

	var event models.OrderPlaced
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return models.OrderPlaced{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.Type != models.OrderPlacedEvent {
		return models.OrderPlaced{}, errForeignEvent
	}
	return event, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
