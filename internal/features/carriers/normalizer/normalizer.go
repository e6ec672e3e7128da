// Package normalizer maps carrier status vocabularies onto the canonical
// shipment status. It performs no I/O.
package normalizer

import (
	"strings"
	"time"

	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"
)

const (
	// DefaultLocation is used when the carrier reports no location.
	DefaultLocation = "Unknown"
	// DefaultDescription is used when the carrier reports no description.
	DefaultDescription = "Package in transit"
	// FallbackStatus is assigned to tokens missing from a carrier table.
	FallbackStatus = domain.StatusInTransit
)

// Result is a carrier response expressed in canonical terms.
type Result struct {
	Status      domain.Status
	Location    string
	Description string
	// RawStatus is the carrier token as received.
	RawStatus string
	// Unmapped is true when RawStatus was not recognized and Status is the fallback.
	Unmapped          bool
	EstimatedDelivery *time.Time
	DeliveryProof     *domain.DeliveryProof
}

// Normalize translates a raw carrier response for the given provider.
func Normalize(provider domain.Provider, raw carrierdomain.RawTracking) Result {
	status, ok := Lookup(provider, raw.StatusCode)

	res := Result{
		Status:            status,
		Location:          firstNonEmpty(raw.Location, DefaultLocation),
		Description:       firstNonEmpty(raw.Description, raw.StatusText, DefaultDescription),
		RawStatus:         raw.StatusCode,
		Unmapped:          !ok,
		EstimatedDelivery: raw.EstimatedDelivery,
	}

	if status == domain.StatusDelivered && (raw.SignedBy != "" || raw.SignatureURL != "" || raw.PhotoURL != "") {
		res.DeliveryProof = &domain.DeliveryProof{
			Signature: raw.SignatureURL,
			Photo:     raw.PhotoURL,
			Recipient: raw.SignedBy,
			Location:  raw.Location,
			Timestamp: raw.EventTime,
		}
	}

	return res
}

// Lookup maps a single carrier token. The second return value is false when
// the token is unknown and the fallback status was returned.
func Lookup(provider domain.Provider, token string) (domain.Status, bool) {
	table, ok := tables[provider]
	if !ok {
		return FallbackStatus, false
	}
	status, ok := table[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return FallbackStatus, false
	}
	return status, true
}

// StatusUpdate converts the result into the orchestrator's update shape.
func (r Result) StatusUpdate() domain.StatusUpdate {
	return domain.StatusUpdate{
		Status:            r.Status,
		Location:          r.Location,
		Description:       r.Description,
		EstimatedDelivery: r.EstimatedDelivery,
		DeliveryProof:     r.DeliveryProof,
		RawStatus:         r.RawStatus,
		Unmapped:          r.Unmapped,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
