package domain

import "errors"

var (
	// ErrNotFound is returned when no shipment exists for a tracking number.
	ErrNotFound = errors.New("shipment not found")
	// ErrDuplicateTrackingNumber is returned when a tracking number is already taken.
	ErrDuplicateTrackingNumber = errors.New("duplicate tracking number")
	// ErrIllegalTransition is returned when a status update would violate the state machine.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrInvalidStatus is returned for values outside the canonical status set.
	ErrInvalidStatus = errors.New("invalid shipment status")
	// ErrInvalidProvider is returned for unknown carrier identities.
	ErrInvalidProvider = errors.New("invalid shipping provider")
	// ErrInvalidRole is returned when listing shipments with a role other than buyer or seller.
	ErrInvalidRole = errors.New("invalid party role")
)
