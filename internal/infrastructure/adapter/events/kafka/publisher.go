package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	eventport "github.com/mkorolev/ledger-service/internal/domain/port/event"
)

const writeTimeout = 5 * time.Second

// Publisher delivers domain events to Kafka. The topic comes per call, so a
// single writer serves every event type.
type Publisher struct {
	writer *kafka.Writer
	logger coreport.Logger
}

// NewPublisher creates a Kafka publisher for the given brokers
func NewPublisher(brokers []string, logger coreport.Logger) eventport.Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Publish serializes the event as JSON and writes it to the topic
func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: data,
	})
	if err != nil {
		p.logger.Error("Failed to publish event", map[string]any{
			"topic": topic,
			"error": err.Error(),
		})
		return err
	}

	return nil
}

// Close shuts down the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
