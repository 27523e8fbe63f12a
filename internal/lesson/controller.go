package lesson

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lesson-market/internal/models"
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(useCase *UseCase, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{useCase: useCase, log: log, tracer: tracer}
}

func (ct *Controller) List(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.ListLessons",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	lessons, err := ct.useCase.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("GET /lessons failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch lessons"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(orEmpty(lessons))
}

func (ct *Controller) Search(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.SearchLessons",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	lessons, err := ct.useCase.Search(ctx, c.Query("q"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("GET /search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(orEmpty(lessons))
}

func (ct *Controller) Update(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.UpdateLesson",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	fields, err := models.DecodeDocument(c.Body())
	if err != nil {
		span.SetStatus(codes.Error, "invalid body")
		ct.log.Warn("invalid lesson update body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update payload"})
	}

	res, err := ct.useCase.UpdateLesson(ctx, c.Params("id"), fields)
	if err != nil {
		if errors.Is(err, models.ErrInvalidUpdate) {
			span.SetStatus(codes.Error, "empty update")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update payload"})
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("PUT /lessons/:id failed", zap.String("lesson_id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update lesson"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(res)
}

func orEmpty(docs []bson.M) []bson.M {
	if docs == nil {
		return []bson.M{}
	}
	return docs
}
