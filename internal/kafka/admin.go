package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TopicSpec describes a topic the service publishes to.
type TopicSpec struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}

// OrdersTopic is the layout used for order events.
func OrdersTopic(name string) TopicSpec {
	return TopicSpec{Name: name, Partitions: 3, ReplicationFactor: 1}
}

// EnsureTopic creates spec on the cluster unless it already exists.
func EnsureTopic(ctx context.Context, brokers []string, spec TopicSpec) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	client := &kafka.Client{
		Addr:    kafka.TCP(brokers...),
		Timeout: 10 * time.Second,
	}

	resp, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{
			Topic:             spec.Name,
			NumPartitions:     spec.Partitions,
			ReplicationFactor: spec.ReplicationFactor,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, err)
	}

	if err := resp.Errors[spec.Name]; err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, err)
	}
	return nil
}
