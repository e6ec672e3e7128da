// Package events provides the in-process publish/subscribe bus used to move
// post-commit domain events off the request path.
package events

import (
	"context"
	"fmt"

	"shipment-tracker/internal/core/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TopicShipmentStatusChanged carries shipments.StatusChanged payloads.
const TopicShipmentStatusChanged = "shipment.status_changed"

// Bus is a watermill GoChannel wrapper. Messages published while no
// subscriber is attached are dropped. Each publish is delivered from its own
// goroutine, so subscribers must not rely on arrival order.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a bus with the given per-subscriber output buffer.
func NewBus(buffer int64) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: buffer},
			logger.NewWatermillAdapter(logger.Named("events")),
		),
	}
}

// Publish wraps the payload in a message with a fresh ID and publishes it.
func (b *Bus) Publish(topic string, payload []byte) error {
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns the message stream of a topic. The stream closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close stops all subscriptions.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
