package messaging

import (
	"context"
	"fmt"
	"time"

	"ministore/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const metricsService = "store-service"

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  start,
	})
	metrics.ObserveKafkaProduce(metricsService, p.topic, start, err)

	if err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopPublisher используется, когда брокеры Kafka не настроены
type NopPublisher struct{}

func (NopPublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
