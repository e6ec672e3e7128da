package domain

import (
	"fmt"
	"strings"
)

// Status is the canonical shipment lifecycle state, independent of any carrier vocabulary.
type Status string

const (
	// StatusCreated is the initial state of every shipment.
	StatusCreated Status = "Order Created"
	// StatusProcessing indicates the seller or carrier is preparing the parcel.
	StatusProcessing Status = "Processing"
	// StatusPickedUp indicates the carrier has collected the parcel.
	StatusPickedUp Status = "Picked Up"
	// StatusInTransit indicates the parcel is moving through the carrier network.
	StatusInTransit Status = "In Transit"
	// StatusOutForDelivery indicates the parcel is on the final leg.
	StatusOutForDelivery Status = "Out for Delivery"
	// StatusDelivered is terminal: the parcel reached the recipient.
	StatusDelivered Status = "Delivered"
	// StatusFailedDelivery indicates a delivery attempt failed. A retry is still possible.
	StatusFailedDelivery Status = "Delivery Failed"
	// StatusReturned is terminal: the parcel went back to the sender.
	StatusReturned Status = "Returned"
	// StatusCancelled is terminal: the shipment was cancelled.
	StatusCancelled Status = "Cancelled"
)

// happyPath ranks the forward progression of a shipment.
var happyPath = map[Status]int{
	StatusCreated:        0,
	StatusProcessing:     1,
	StatusPickedUp:       2,
	StatusInTransit:      3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

var aliases = map[string]Status{
	"CREATED":          StatusCreated,
	"PROCESSING":       StatusProcessing,
	"PICKED_UP":        StatusPickedUp,
	"IN_TRANSIT":       StatusInTransit,
	"OUT_FOR_DELIVERY": StatusOutForDelivery,
	"DELIVERED":        StatusDelivered,
	"FAILED_DELIVERY":  StatusFailedDelivery,
	"RETURNED":         StatusReturned,
	"CANCELLED":        StatusCancelled,
}

// AllStatuses lists the canonical statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusCreated, StatusProcessing, StatusPickedUp, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusFailedDelivery, StatusReturned, StatusCancelled,
	}
}

// ParseStatus accepts either the display value ("In Transit") or the enum name ("IN_TRANSIT").
func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range AllStatuses() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	if s, ok := aliases[strings.ToUpper(trimmed)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusReturned || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
// Staying in the same status is always legal (it is a no-op on history).
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}

	switch next {
	case StatusFailedDelivery, StatusReturned, StatusCancelled:
		return true
	}

	// A failed attempt is retried: the carrier may report the next run or the
	// delivery itself if the out-for-delivery scan was not observed.
	if s == StatusFailedDelivery {
		return next == StatusOutForDelivery || next == StatusDelivered
	}

	from, okFrom := happyPath[s]
	to, okTo := happyPath[next]
	return okFrom && okTo && to > from
}
