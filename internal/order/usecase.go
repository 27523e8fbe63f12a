package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lesson-market/internal/models"
	"lesson-market/internal/telemetry"
)

const publishTimeout = 2 * time.Second

type Repository interface {
	Insert(ctx context.Context, order bson.M) (any, error)
}

// Publisher announces stored orders. Publishing is best effort: the order
// is already persisted when it runs.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error
}

type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, models.OrderPlaced) error { return nil }

type UseCase struct {
	repo      Repository
	publisher Publisher
	metrics   *telemetry.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewUseCase(repo Repository, publisher Publisher, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &UseCase{repo: repo, publisher: publisher, metrics: metrics, log: log, tracer: tracer, now: time.Now}
}

// Validate checks the fields every stored order must carry: string name
// and phone, and a non-empty items array.
func Validate(order bson.M) error {
	if order == nil {
		return models.ErrInvalidOrder
	}
	if _, ok := order["name"].(string); !ok {
		return models.ErrInvalidOrder
	}
	if _, ok := order["phone"].(string); !ok {
		return models.ErrInvalidOrder
	}
	items, ok := order["items"].([]any)
	if !ok || len(items) == 0 {
		return models.ErrInvalidOrder
	}
	return nil
}

// PlaceOrder validates and stores order, returning the id the store assigned.
func (uc *UseCase) PlaceOrder(ctx context.Context, order bson.M) (any, error) {
	ctx, span := uc.tracer.Start(ctx, "PlaceOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if err := Validate(order); err != nil {
		span.SetStatus(codes.Error, "invalid order")
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "invalid")))
		return nil, err
	}
	items := order["items"].([]any)
	span.SetAttributes(attribute.Int("order.items_count", len(items)))

	id, err := uc.repo.Insert(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return nil, err
	}

	orderID := idString(id)
	span.SetAttributes(attribute.String("order.id", orderID))
	uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))
	uc.metrics.OrderItems.Record(ctx, int64(len(items)))

	uc.publish(ctx, models.OrderPlaced{
		EventID:   uuid.NewString(),
		Type:      models.OrderPlacedEvent,
		OrderID:   orderID,
		Name:      order["name"].(string),
		Phone:     order["phone"].(string),
		Items:     items,
		ItemCount: len(items),
		PlacedAt:  uc.now().UTC(),
	})

	span.SetStatus(codes.Ok, "")
	uc.log.Info("order placed",
		zap.String("order_id", orderID),
		zap.Int("items", len(items)),
	)
	return id, nil
}

func (uc *UseCase) publish(ctx context.Context, event models.OrderPlaced) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	status := "ok"
	if err := uc.publisher.PublishOrderPlaced(ctx, event); err != nil {
		status = "error"
		uc.log.Warn("failed to publish order event",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
	uc.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
