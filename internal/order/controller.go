package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
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

type createOrderResponse struct {
	InsertedID any `json:"insertedId"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreateOrder",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	order, err := models.DecodeDocument(c.Body())
	if err != nil {
		span.SetStatus(codes.Error, "invalid body")
		ct.log.Warn("invalid order body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order payload"})
	}

	id, err := ct.useCase.PlaceOrder(ctx, order)
	if err != nil {
		if errors.Is(err, models.ErrInvalidOrder) {
			span.SetStatus(codes.Error, "invalid order")
			ct.log.Warn("rejected order payload")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order payload"})
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("POST /orders failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(createOrderResponse{InsertedID: id})
}
