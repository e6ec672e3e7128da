package adapters

import (
	"context"
	"fmt"

	"shipment-tracker/internal/core/events"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
)

// MessagePublisher is the subset of events.Bus used for publishing.
type MessagePublisher interface {
	Publish(topic string, payload []byte) error
}

// BusEventPublisher implements ports.EventPublisher on the in-process event bus.
type BusEventPublisher struct {
	bus MessagePublisher
}

// NewBusEventPublisher creates a new BusEventPublisher.
func NewBusEventPublisher(bus MessagePublisher) *BusEventPublisher {
	return &BusEventPublisher{bus: bus}
}

// PublishStatusChanged publishes the event on events.TopicShipmentStatusChanged.
func (p *BusEventPublisher) PublishStatusChanged(_ context.Context, event domain.StatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}
	return p.bus.Publish(events.TopicShipmentStatusChanged, payload)
}
