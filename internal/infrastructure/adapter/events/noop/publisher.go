package noop

import (
	eventport "github.com/mkorolev/ledger-service/internal/domain/port/event"
)

// Publisher discards all events. Used when event publishing is disabled
// and in tests.
type Publisher struct{}

// NewPublisher creates a no-op publisher
func NewPublisher() eventport.Publisher {
	return &Publisher{}
}

// Publish discards the event
func (p *Publisher) Publish(topic string, event any) error {
	return nil
}

// Close does nothing
func (p *Publisher) Close() error {
	return nil
}
