package ports

import (
	"context"

	"shipment-tracker/internal/features/notifications/domain"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ContactDirectory looks up how a user can be reached.
type ContactDirectory interface {
	// Lookup returns domain.ErrContactNotFound when the user is unknown.
	Lookup(ctx context.Context, userID string) (*domain.Contact, error)
}

// Sender delivers a notification through an outbound channel.
type Sender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// EventSubscriber provides the message stream of a topic.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}
