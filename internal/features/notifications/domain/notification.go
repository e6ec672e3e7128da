package domain

import (
	"errors"
	"time"

	shipmentdomain "shipment-tracker/internal/features/shipments/domain"
)

// ErrContactNotFound is returned when the user directory has no record for a user.
var ErrContactNotFound = errors.New("contact not found")

// Contact is how a user can be reached.
type Contact struct {
	UserID string
	Name   string
	Email  string
	Phone  string
	// EmailOptOut and SMSOptOut reflect the user's notification preferences.
	EmailOptOut bool
	SMSOptOut   bool
}

// Address returns the preferred reachable channel, email first. It is empty
// when the user has no usable channel.
func (c Contact) Address() string {
	if c.Email != "" && !c.EmailOptOut {
		return c.Email
	}
	if c.Phone != "" && !c.SMSOptOut {
		return c.Phone
	}
	return ""
}

// Notification is the payload handed to the outbound notification channel.
type Notification struct {
	RecipientContact  string                `json:"recipientContact"`
	TrackingNumber    string                `json:"trackingNumber"`
	Status            shipmentdomain.Status `json:"status"`
	Location          string                `json:"location"`
	Description       string                `json:"description"`
	EstimatedDelivery time.Time             `json:"estimatedDelivery"`
}

// Outcome classifies what the dispatcher did with an event.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeUnchanged Outcome = "skipped_unchanged"
	OutcomeDuplicate Outcome = "skipped_duplicate"
	OutcomeStale     Outcome = "skipped_stale"
	OutcomeNoBuyer   Outcome = "skipped_no_buyer"
	OutcomeNoContact Outcome = "skipped_no_contact"
	OutcomeFailed    Outcome = "failed"
)
