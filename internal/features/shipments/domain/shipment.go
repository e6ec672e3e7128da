package domain

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies the carrier responsible for a shipment.
type Provider string

const (
	ProviderDHL   Provider = "dhl"
	ProviderFedEx Provider = "fedex"
	ProviderUPS   Provider = "ups"
	// ProviderLocal is the in-house courier. Local shipments are never polled.
	ProviderLocal Provider = "local"
)

// DefaultTrackingPrefix is used when no prefix is configured.
const DefaultTrackingPrefix = "BLOC"

// ParseProvider normalizes a provider name. An empty name means local.
func ParseProvider(raw string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return ProviderLocal, nil
	case ProviderDHL, ProviderFedEx, ProviderUPS, ProviderLocal:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, raw)
	}
}

// IsCarrier reports whether the provider is an external carrier with a tracking API.
func (p Provider) IsCarrier() bool {
	return p == ProviderDHL || p == ProviderFedEx || p == ProviderUPS
}

// ServiceLevel is the shipping tier. It only drives the delivery estimate.
type ServiceLevel string

const (
	ServiceExpress  ServiceLevel = "express"
	ServicePriority ServiceLevel = "priority"
	ServiceStandard ServiceLevel = "standard"
	ServiceEconomy  ServiceLevel = "economy"
)

var transitDays = map[ServiceLevel]int{
	ServiceExpress:  1,
	ServicePriority: 2,
	ServiceStandard: 5,
	ServiceEconomy:  7,
}

// ParseServiceLevel falls back to standard for empty or unknown tiers.
func ParseServiceLevel(raw string) ServiceLevel {
	s := ServiceLevel(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transitDays[s]; ok {
		return s
	}
	return ServiceStandard
}

// EstimateDelivery returns the expected delivery time for a tier shipped at from.
func EstimateDelivery(service ServiceLevel, from time.Time) time.Time {
	days, ok := transitDays[service]
	if !ok {
		days = transitDays[ServiceStandard]
	}
	return from.AddDate(0, 0, days)
}

// PartyRole selects which side of a shipment a user is on.
type PartyRole string

const (
	RoleBuyer  PartyRole = "buyer"
	RoleSeller PartyRole = "seller"
)

// ParsePartyRole defaults to buyer for an empty role.
func ParsePartyRole(raw string) (PartyRole, error) {
	switch r := PartyRole(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RoleBuyer, nil
	case RoleBuyer, RoleSeller:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// Address is an opaque postal address. Only City and Region are interpreted.
type Address struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Dimensions of the parcel.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

// DeliveryProof is the terminal evidence attached once a shipment is delivered.
type DeliveryProof struct {
	Signature string     `json:"signature,omitempty"`
	Photo     string     `json:"photo,omitempty"`
	Recipient string     `json:"recipient,omitempty"`
	Location  string     `json:"location,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Metadata holds bookkeeping fields of a shipment.
type Metadata struct {
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"lastUpdated"`
	// AutoUpdate permits a live carrier poll during tracking lookups.
	AutoUpdate bool `json:"autoUpdate"`
	// Revision counts committed writes, starting at 1 on creation.
	Revision int64 `json:"revision"`
}

// TrackingEvent is one immutable entry of a shipment's history.
type TrackingEvent struct {
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	// RawStatus is the carrier token the entry was derived from, if any.
	RawStatus string `json:"rawStatus,omitempty"`
	// Unmapped marks entries whose carrier token was unknown and defaulted.
	Unmapped bool `json:"unmapped,omitempty"`
}

// Shipment is the aggregate root of the tracking domain.
type Shipment struct {
	TrackingNumber    string          `json:"trackingNumber"`
	OrderID           string          `json:"orderId"`
	Seller            string          `json:"seller"`
	Buyer             string          `json:"buyer"`
	Status            Status          `json:"status"`
	Provider          Provider        `json:"provider"`
	Service           ServiceLevel    `json:"service"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Origin            Address         `json:"origin"`
	Destination       Address         `json:"destination"`
	Weight            float64         `json:"weight,omitempty"`
	Dimensions        Dimensions      `json:"dimensions"`
	Value             float64         `json:"value,omitempty"`
	History           []TrackingEvent `json:"history"`
	Metadata          Metadata        `json:"metadata"`
	DeliveryProof     *DeliveryProof  `json:"deliveryProof,omitempty"`
}

// NewShipmentParams are the inputs of NewShipment.
type NewShipmentParams struct {
	TrackingNumber string
	OrderID        string
	Seller         string
	Buyer          string
	Provider       Provider
	Service        ServiceLevel
	Origin         Address
	Destination    Address
	Weight         float64
	Dimensions     Dimensions
	Value          float64
	AutoUpdate     bool
}

// NewShipment builds a shipment in the Order Created state with a single history entry.
func NewShipment(p NewShipmentParams, now time.Time) *Shipment {
	location := p.Origin.City
	if location == "" {
		location = "Origin"
	}

	return &Shipment{
		TrackingNumber:    p.TrackingNumber,
		OrderID:           p.OrderID,
		Seller:            p.Seller,
		Buyer:             p.Buyer,
		Status:            StatusCreated,
		Provider:          p.Provider,
		Service:           p.Service,
		EstimatedDelivery: EstimateDelivery(p.Service, now),
		Origin:            p.Origin,
		Destination:       p.Destination,
		Weight:            p.Weight,
		Dimensions:        p.Dimensions,
		Value:             p.Value,
		History: []TrackingEvent{{
			Status:      StatusCreated,
			Timestamp:   now,
			Location:    location,
			Description: "Shipment created",
		}},
		Metadata: Metadata{
			Created:     now,
			LastUpdated: now,
			AutoUpdate:  p.AutoUpdate,
			Revision:    1,
		},
	}
}

// StatusUpdate is a partial update applied through ApplyUpdate.
type StatusUpdate struct {
	// Status is the target status. Empty keeps the current status.
	Status            Status
	Location          string
	Description       string
	EstimatedDelivery *time.Time
	DeliveryProof     *DeliveryProof
	RawStatus         string
	Unmapped          bool
}

// ApplyUpdate mutates the shipment and reports whether a history entry was appended.
// An entry is appended only when the status changes. Illegal transitions leave the
// shipment untouched.
func (s *Shipment) ApplyUpdate(u StatusUpdate, now time.Time) (bool, error) {
	next := u.Status
	if next == "" {
		next = s.Status
	}
	if !next.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !s.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, next)
	}

	appended := false
	if next != s.Status {
		description := u.Description
		if description == "" {
			description = "Status updated to " + string(next)
		}
		s.History = append(s.History, TrackingEvent{
			Status:      next,
			Timestamp:   now,
			Location:    u.Location,
			Description: description,
			RawStatus:   u.RawStatus,
			Unmapped:    u.Unmapped,
		})
		s.Status = next
		appended = true
	}

	if u.EstimatedDelivery != nil {
		s.EstimatedDelivery = *u.EstimatedDelivery
	}

	if u.DeliveryProof != nil && s.Status == StatusDelivered {
		proof := *u.DeliveryProof
		if proof.Timestamp == nil {
			ts := now
			proof.Timestamp = &ts
		}
		s.DeliveryProof = &proof
	}

	s.Metadata.LastUpdated = now
	s.Metadata.Revision++
	return appended, nil
}

// LastEvent returns the most recent history entry.
func (s *Shipment) LastEvent() (TrackingEvent, bool) {
	if len(s.History) == 0 {
		return TrackingEvent{}, false
	}
	return s.History[len(s.History)-1], true
}

// Pollable reports whether a live carrier poll is permitted for this shipment.
func (s *Shipment) Pollable() bool {
	return s.Provider.IsCarrier() && s.Metadata.AutoUpdate && !s.Status.IsTerminal()
}

// ShipmentSummary is the bounded list projection of a shipment.
type ShipmentSummary struct {
	TrackingNumber    string    `json:"trackingNumber"`
	OrderID           string    `json:"orderId"`
	Status            Status    `json:"status"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	Provider          Provider  `json:"provider"`
	Created           time.Time `json:"created"`
}

// Summary projects the shipment without its history.
func (s *Shipment) Summary() ShipmentSummary {
	return ShipmentSummary{
		TrackingNumber:    s.TrackingNumber,
		OrderID:           s.OrderID,
		Status:            s.Status,
		EstimatedDelivery: s.EstimatedDelivery,
		Provider:          s.Provider,
		Created:           s.Metadata.Created,
	}
}
