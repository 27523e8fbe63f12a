package lesson

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lesson-market/internal/models"
	"lesson-market/internal/search"
	"lesson-market/internal/telemetry"
)

// Repository is the lesson storage the use case needs.
type Repository interface {
	Find(ctx context.Context, filter search.Filter) ([]bson.M, error)
	Update(ctx context.Context, id models.LessonID, fields bson.M) (models.UpdateResult, error)
}

type UseCase struct {
	repo    Repository
	metrics *telemetry.Metrics
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewUseCase(repo Repository, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{repo: repo, metrics: metrics, log: log, tracer: tracer}
}

func (uc *UseCase) List(ctx context.Context) ([]bson.M, error) {
	ctx, span := uc.tracer.Start(ctx, "ListLessons")
	defer span.End()

	lessons, err := uc.repo.Find(ctx, search.Filter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.metrics.LessonsListed.Add(ctx, 1)
	span.SetAttributes(attribute.Int("lessons.count", len(lessons)))
	span.SetStatus(codes.Ok, "")
	return lessons, nil
}

// Search matches q against subject and location, and against the numeric
// fields when q is a number. A blank q lists everything.
func (uc *UseCase) Search(ctx context.Context, q string) ([]bson.M, error) {
	filter := search.Parse(q)
	if filter.Empty() {
		return uc.List(ctx)
	}

	ctx, span := uc.tracer.Start(ctx, "SearchLessons",
		trace.WithAttributes(
			attribute.String("search.query", filter.Text),
			attribute.Bool("search.numeric", filter.IsNumeric),
		),
	)
	defer span.End()

	lessons, err := uc.repo.Find(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.Bool("numeric", filter.IsNumeric))
	uc.metrics.LessonSearches.Add(ctx, 1, attrs)
	uc.metrics.SearchResults.Record(ctx, int64(len(lessons)), attrs)

	span.SetAttributes(attribute.Int("lessons.count", len(lessons)))
	span.SetStatus(codes.Ok, "")
	return lessons, nil
}

// UpdateLesson sets the given fields on the lesson identified by rawID. A
// missing lesson is reported through a zero match count, not an error.
func (uc *UseCase) UpdateLesson(ctx context.Context, rawID string, fields bson.M) (models.UpdateResult, error) {
	id := models.ParseLessonID(rawID)
	ctx, span := uc.tracer.Start(ctx, "UpdateLesson",
		trace.WithAttributes(
			attribute.String("lesson.id", rawID),
			attribute.String("lesson.id_kind", id.Kind.String()),
			attribute.Int("lesson.fields", len(fields)),
		),
	)
	defer span.End()

	if len(fields) == 0 {
		span.SetStatus(codes.Error, "empty update")
		uc.metrics.LessonsUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "invalid")))
		return models.UpdateResult{}, models.ErrInvalidUpdate
	}

	res, err := uc.repo.Update(ctx, id, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.LessonsUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return models.UpdateResult{}, err
	}

	outcome := "modified"
	switch {
	case res.Matched == 0:
		outcome = "not_found"
	case res.Modified == 0:
		outcome = "unchanged"
	}
	uc.metrics.LessonsUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	span.SetAttributes(
		attribute.Int64("lesson.matched", res.Matched),
		attribute.Int64("lesson.modified", res.Modified),
	)
	span.SetStatus(codes.Ok, "")
	uc.log.Info("lesson updated",
		zap.String("lesson_id", rawID),
		zap.String("id_kind", id.Kind.String()),
		zap.Int64("matched", res.Matched),
		zap.Int64("modified", res.Modified),
	)
	return res, nil
}
