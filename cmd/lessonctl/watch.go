package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lesson-market/internal/kafka"
	"lesson-market/internal/models"
)

func newWatchOrdersCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "watch-orders",
		Short: "Consume order events and log each one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, e, cleanup, err := setup(cmd, "lessonctl-watch")
			if err != nil {
				return err
			}
			defer cleanup()
			log := e.tel.Log

			if len(e.cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}

			consumer := kafka.NewConsumer(e.cfg.KafkaBrokers, e.cfg.OrdersTopic, group)
			defer consumer.Close()

			log.Info("watching order events",
				zap.Strings("brokers", e.cfg.KafkaBrokers),
				zap.String("topic", e.cfg.OrdersTopic),
				zap.String("group", group),
			)

			tracer := e.tel.Tracer
			err = consumer.Listen(ctx, func(ctx context.Context, event models.OrderPlaced) error {
				_, span := tracer.Start(ctx, "HandleOrderPlaced",
					trace.WithSpanKind(trace.SpanKindConsumer),
					trace.WithAttributes(
						attribute.String("order.id", event.OrderID),
						attribute.Int("order.item_count", event.ItemCount),
					),
				)
				defer span.End()

				log.Info("order placed",
					zap.String("event_id", event.EventID),
					zap.String("order_id", event.OrderID),
					zap.String("name", event.Name),
					zap.Int("item_count", event.ItemCount),
					zap.Time("placed_at", event.PlacedAt),
				)
				span.SetStatus(codes.Ok, "")
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order consumer error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "lessonctl-watch", "kafka consumer group")
	return cmd
}
