package service

import (
	"context"
	"fmt"

	"shipment-tracker/internal/core/events"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/notifications/ports"
	shipmentdomain "shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Worker consumes status change events and feeds them to the Dispatcher.
type Worker struct {
	subscriber ports.EventSubscriber
	dispatcher *Dispatcher
	done       chan struct{}
	logger     *zap.Logger
}

// NewWorker creates a new Worker.
func NewWorker(subscriber ports.EventSubscriber, dispatcher *Dispatcher) *Worker {
	return &Worker{
		subscriber: subscriber,
		dispatcher: dispatcher,
		done:       make(chan struct{}),
		logger:     logger.Named("notifications"),
	}
}

// Start subscribes before returning, so no event published afterwards is
// missed, and consumes in the background until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, events.TopicShipmentStatusChanged)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.TopicShipmentStatusChanged, err)
	}

	go func() {
		defer close(w.done)
		for msg := range messages {
			var event shipmentdomain.StatusChanged
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				w.logger.Error("Dropping malformed status change", zap.String("message_id", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}
			w.dispatcher.Dispatch(msg.Context(), event)
			msg.Ack()
		}
	}()

	w.logger.Info("Notification worker started")
	return nil
}

// Done is closed once the message stream has ended.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
