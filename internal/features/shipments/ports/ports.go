package ports

import (
	"context"

	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"
)

// ShipmentRepository is the secondary port for shipment persistence.
type ShipmentRepository interface {
	// Insert stores a new shipment. Returns domain.ErrDuplicateTrackingNumber if the key exists.
	Insert(ctx context.Context, shipment *domain.Shipment) error
	// Find returns the shipment or domain.ErrNotFound.
	Find(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	// Update atomically loads the shipment, applies mutate and persists the result.
	// Concurrent updates of the same key are serialized; mutate may run more than once.
	// If mutate returns an error nothing is written and the error is returned.
	Update(ctx context.Context, trackingNumber string, mutate func(*domain.Shipment) error) (*domain.Shipment, error)
	// ListByParty returns the shipments of a buyer or seller, newest first.
	ListByParty(ctx context.Context, partyID string, role domain.PartyRole) ([]*domain.Shipment, error)
	// ListActive returns the tracking numbers of pollable carrier shipments.
	ListActive(ctx context.Context) ([]string, error)
}

// CarrierClient performs outbound calls against one carrier.
type CarrierClient interface {
	// Track fetches the carrier's current view of a shipment.
	Track(ctx context.Context, trackingNumber string) (*carrierdomain.RawTracking, error)
	// Register announces a new shipment to the carrier.
	Register(ctx context.Context, shipment *domain.Shipment) error
}

// CarrierRegistry resolves the client of a provider.
type CarrierRegistry interface {
	// Client returns carrierdomain.ErrProviderNotConfigured when no client exists for the provider.
	Client(provider domain.Provider) (CarrierClient, error)
}

// EventPublisher emits post-commit domain events.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChanged) error
}
