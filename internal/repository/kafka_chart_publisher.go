package repository

import (
	"context"

	"TrueArk/internal/domain/models"
	"TrueArk/internal/domain/repository"
	pkgkafka "TrueArk/pkg/kafka"
)

// KafkaChartPublisher implements ChartPublisher for Kafka. Events are keyed
// by chart id so replays for the same chart land on one partition.
type KafkaChartPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaChartPublisher creates a Kafka chart publisher.
func NewKafkaChartPublisher(producer *pkgkafka.Producer, topic string) repository.ChartPublisher {
	if topic == "" {
		topic = "chart.computed"
	}
	return &KafkaChartPublisher{producer: producer, topic: topic}
}

func (p *KafkaChartPublisher) Publish(ctx context.Context, ev *models.ChartComputedEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.ChartID), ev)
}

func (p *KafkaChartPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
