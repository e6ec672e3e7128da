package domain

import (
	"errors"
	"time"
)

var (
	// ErrProviderUnavailable is returned when a carrier call fails, times out or is short-circuited.
	ErrProviderUnavailable = errors.New("carrier provider unavailable")
	// ErrProviderNotConfigured is returned when a carrier has no endpoint or credential.
	ErrProviderNotConfigured = errors.New("carrier provider not configured")
)

// RawTracking is a carrier response reduced to the fields the normalizer consumes.
// StatusCode is kept in the carrier's own vocabulary.
type RawTracking struct {
	// StatusCode is the carrier-specific status token (e.g. "transit", "IT", "I").
	StatusCode string `json:"statusCode"`
	// StatusText is the carrier's human readable status, if any.
	StatusText string `json:"statusText,omitempty"`
	// Location is a free-text description of the last scan location.
	Location string `json:"location,omitempty"`
	// Description is the carrier's event detail.
	Description string `json:"description,omitempty"`
	// EventTime is the carrier's own timestamp of the last event.
	EventTime *time.Time `json:"eventTime,omitempty"`
	// EstimatedDelivery is the carrier's current delivery estimate.
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	// SignedBy is the name captured at delivery.
	SignedBy string `json:"signedBy,omitempty"`
	// SignatureURL points at the captured signature image.
	SignatureURL string `json:"signatureUrl,omitempty"`
	// PhotoURL points at the proof-of-delivery photo.
	PhotoURL string `json:"photoUrl,omitempty"`
}
