package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lesson-market/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order events keyed by order id, so every event for
// one order lands on the same partition. Writes are asynchronous: publish
// only enqueues, and delivery failures are logged when the batch completes.
type Producer struct {
	writer messageWriter
	topic  string
	tracer trace.Tracer
}

func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			Completion:   deliveryLogger(topic, log),
		},
		topic:  topic,
		tracer: otel.Tracer("kafka/producer"),
	}
}

func deliveryLogger(topic string, log *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, len(msgs))
		for i, m := range msgs {
			keys[i] = string(m.Key)
		}
		log.Warn("order events not delivered",
			zap.String("topic", topic),
			zap.Strings("order_ids", keys),
			zap.Error(err),
		)
	}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error {
	ctx, span := p.tracer.Start(ctx, "publish "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(p.topic),
			attribute.String("messaging.kafka.message.key", event.OrderID),
			attribute.String("event.type", event.Type),
			attribute.Int("order.item_count", event.ItemCount),
		),
	)
	defer span.End()

	msg, err := orderMessage(ctx, event)
	if err == nil {
		err = p.writer.WriteMessages(ctx, msg)
		if err != nil {
			err = fmt.Errorf("failed to publish event: %w", err)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// orderMessage encodes event with its type and the caller's trace context
// in the headers.
func orderMessage(ctx context.Context, event models.OrderPlaced) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to serialize event: %w", err)
	}

	headers := []kafka.Header{{Key: eventTypeHeader, Value: []byte(event.Type)}}
	otel.GetTextMapPropagator().Inject(ctx, &headerCarrier{headers: &headers})

	return kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   data,
		Time:    event.PlacedAt,
		Headers: headers,
	}, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
