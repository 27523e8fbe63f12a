package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	LessonsListed   metric.Int64Counter
	LessonSearches  metric.Int64Counter
	SearchResults   metric.Int64Histogram
	LessonsUpdated  metric.Int64Counter
	OrdersCreated   metric.Int64Counter
	OrderItems      metric.Int64Histogram
	EventsPublished metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	listed, err := meter.Int64Counter("lessons_listed_total",
		metric.WithDescription("Total full lesson listings served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	searches, err := meter.Int64Counter("lesson_searches_total",
		metric.WithDescription("Total lesson searches"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	results, err := meter.Int64Histogram("lesson_search_results",
		metric.WithDescription("Lessons returned per search"),
		metric.WithUnit("{lesson}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50),
	)
	if err != nil {
		return nil, err
	}

	updated, err := meter.Int64Counter("lessons_updated_total",
		metric.WithDescription("Total lesson update requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Total orders created"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	orderItems, err := meter.Int64Histogram("order_items",
		metric.WithDescription("Items per created order"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter("order_events_published_total",
		metric.WithDescription("Total order events published to Kafka"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		LessonsListed:   listed,
		LessonSearches:  searches,
		SearchResults:   results,
		LessonsUpdated:  updated,
		OrdersCreated:   ordersCreated,
		OrderItems:      orderItems,
		EventsPublished: published,
	}, nil
}
