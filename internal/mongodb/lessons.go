package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lesson-market/internal/models"
	"lesson-market/internal/search"
)

type LessonRepository struct {
	handle *Handle
	tracer trace.Tracer
}

func NewLessonRepository(handle *Handle, tracer trace.Tracer) *LessonRepository {
	return &LessonRepository{handle: handle, tracer: tracer}
}

// Find returns the raw lesson documents selected by filter, in store order.
func (r *LessonRepository) Find(ctx context.Context, filter search.Filter) ([]bson.M, error) {
	ctx, span := startSpan(ctx, r.tracer, models.LessonsCollection, "find")
	defer span.End()

	coll, err := r.handle.Collection(models.LessonsCollection)
	if err != nil {
		return nil, fail(span, err)
	}

	cursor, err := coll.Find(ctx, filter.BSON())
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to query lessons: %w", err))
	}

	lessons := []bson.M{}
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, fail(span, fmt.Errorf("failed to read lessons: %w", err))
	}

	span.SetAttributes(attribute.Int("db.response.returned_rows", len(lessons)))
	span.SetStatus(codes.Ok, "")
	return lessons, nil
}

// Update applies fields with $set to the lesson matching id.
func (r *LessonRepository) Update(ctx context.Context, id models.LessonID, fields bson.M) (models.UpdateResult, error) {
	ctx, span := startSpan(ctx, r.tracer, models.LessonsCollection, "update")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.id_kind", id.Kind.String()))

	coll, err := r.handle.Collection(models.LessonsCollection)
	if err != nil {
		return models.UpdateResult{}, fail(span, err)
	}

	res, err := coll.UpdateOne(ctx, id.Filter(), bson.M{"$set": fields})
	if err != nil {
		return models.UpdateResult{}, fail(span, fmt.Errorf("failed to update lesson: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return models.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Seed inserts lessons, first clearing the collection unless keep is set.
func (r *LessonRepository) Seed(ctx context.Context, lessons []models.Lesson, keep bool) (int, error) {
	ctx, span := startSpan(ctx, r.tracer, models.LessonsCollection, "seed")
	defer span.End()

	coll, err := r.handle.Collection(models.LessonsCollection)
	if err != nil {
		return 0, fail(span, err)
	}

	if !keep {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return 0, fail(span, fmt.Errorf("failed to clear lessons: %w", err))
		}
	}

	docs := make([]any, 0, len(lessons))
	for _, l := range lessons {
		docs = append(docs, l)
	}
	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fail(span, fmt.Errorf("failed to insert lessons: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return len(res.InsertedIDs), nil
}
