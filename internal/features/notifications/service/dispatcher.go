package service

import (
	"context"
	"errors"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/features/notifications/domain"
	"shipment-tracker/internal/features/notifications/ports"
	shipmentdomain "shipment-tracker/internal/features/shipments/domain"

	"go.uber.org/zap"
)

const markKeyPrefix = "notify:"

// Dispatcher decides whether a status change is worth telling the buyer about
// and hands the notification to the sender. It never returns an error; every
// failure is logged and reported as an Outcome.
type Dispatcher struct {
	directory ports.ContactDirectory
	sender    ports.Sender
	dedupe    cache.Cache
	dedupeTTL time.Duration
}

// NewDispatcher creates a new Dispatcher. dedupe keeps the last notified
// revision per shipment; nil disables redelivery and ordering checks.
func NewDispatcher(directory ports.ContactDirectory, sender ports.Sender, dedupe cache.Cache, dedupeTTL time.Duration) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		sender:    sender,
		dedupe:    dedupe,
		dedupeTTL: dedupeTTL,
	}
}

// Dispatch handles one committed status change.
func (d *Dispatcher) Dispatch(ctx context.Context, event shipmentdomain.StatusChanged) domain.Outcome {
	outcome := d.dispatch(ctx, event)
	metrics.Notifications.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, event shipmentdomain.StatusChanged) domain.Outcome {
	log := logger.ForShipment("notifications", event.TrackingNumber)

	if !event.Noteworthy() {
		return domain.OutcomeUnchanged
	}
	if event.Buyer == "" {
		log.Debug("Shipment has no buyer, skipping notification")
		return domain.OutcomeNoBuyer
	}

	contact, err := d.directory.Lookup(ctx, event.Buyer)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			log.Debug("Buyer not found in directory", zap.String("buyer", event.Buyer))
			return domain.OutcomeNoContact
		}
		log.Error("Buyer lookup failed", zap.String("buyer", event.Buyer), zap.Error(err))
		return domain.OutcomeFailed
	}
	recipient := contact.Address()
	if recipient == "" {
		log.Debug("Buyer has no reachable channel", zap.String("buyer", event.Buyer))
		return domain.OutcomeNoContact
	}

	key := markKey(event.TrackingNumber)
	previous, outcome, ok := d.claim(ctx, key, event.Revision, log)
	if !ok {
		return outcome
	}

	err = d.sender.Send(ctx, domain.Notification{
		RecipientContact:  recipient,
		TrackingNumber:    event.TrackingNumber,
		Status:            event.Status,
		Location:          event.Location,
		Description:       event.Description,
		EstimatedDelivery: event.EstimatedDelivery,
	})
	if err != nil {
		log.Error("Failed to send notification", zap.Error(err))
		d.release(ctx, key, event.Revision, previous, log)
		return domain.OutcomeFailed
	}

	log.Info("Buyer notified", zap.String("status", string(event.Status)))
	return domain.OutcomeSent
}

// markKey holds the last notified revision of a shipment.
func markKey(trackingNumber string) string {
	return markKeyPrefix + trackingNumber
}

// claim advances the shipment's mark to revision. Redelivered events and
// events older than one already notified are refused, so a late delivery
// never overwrites newer news. Store errors let the notification through.
func (d *Dispatcher) claim(ctx context.Context, key string, revision int64, log *zap.Logger) (int64, domain.Outcome, bool) {
	if d.dedupe == nil {
		return 0, "", true
	}
	previous, err := d.dedupe.AdvanceMark(ctx, key, revision, d.dedupeTTL)
	if err != nil {
		log.Warn("Notification dedupe unavailable", zap.Error(err))
		return 0, "", true
	}
	switch {
	case previous == revision:
		return previous, domain.OutcomeDuplicate, false
	case previous > revision:
		log.Debug("Dropping out-of-order status change",
			zap.Int64("revision", revision),
			zap.Int64("notified_revision", previous),
		)
		return previous, domain.OutcomeStale, false
	}
	return previous, "", true
}

// release hands the mark back after a failed send so a redelivery can retry.
func (d *Dispatcher) release(ctx context.Context, key string, revision, previous int64, log *zap.Logger) {
	if d.dedupe == nil {
		return
	}
	if err := d.dedupe.RestoreMark(ctx, key, revision, previous); err != nil {
		log.Warn("Failed to release notification claim", zap.Error(err))
	}
}
