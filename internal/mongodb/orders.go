package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lesson-market/internal/models"
)

type OrderRepository struct {
	handle *Handle
	tracer trace.Tracer
}

func NewOrderRepository(handle *Handle, tracer trace.Tracer) *OrderRepository {
	return &OrderRepository{handle: handle, tracer: tracer}
}

// Insert stores the order document as given and returns its _id.
func (r *OrderRepository) Insert(ctx context.Context, order bson.M) (any, error) {
	ctx, span := startSpan(ctx, r.tracer, models.OrdersCollection, "insert")
	defer span.End()

	coll, err := r.handle.Collection(models.OrdersCollection)
	if err != nil {
		return nil, fail(span, err)
	}

	res, err := coll.InsertOne(ctx, order)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to insert order: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return res.InsertedID, nil
}

func (r *OrderRepository) Get(ctx context.Context, id any) (bson.M, error) {
	ctx, span := startSpan(ctx, r.tracer, models.OrdersCollection, "findOne")
	defer span.End()

	coll, err := r.handle.Collection(models.OrdersCollection)
	if err != nil {
		return nil, fail(span, err)
	}

	var order bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fail(span, models.ErrOrderNotFound)
		}
		return nil, fail(span, fmt.Errorf("failed to read order: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return order, nil
}
