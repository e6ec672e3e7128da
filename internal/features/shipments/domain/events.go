package domain

import "time"

// StatusChanged is emitted after every committed status update.
type StatusChanged struct {
	TrackingNumber    string    `json:"trackingNumber"`
	OrderID           string    `json:"orderId"`
	Buyer             string    `json:"buyer"`
	PreviousStatus    Status    `json:"previousStatus"`
	Status            Status    `json:"status"`
	Location          string    `json:"location"`
	Description       string    `json:"description"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	// StatusChanged is true when a history entry was appended.
	StatusChanged bool `json:"statusChanged"`
	// EstimateChanged is true when the delivery estimate was overwritten with a new value.
	EstimateChanged bool `json:"estimateChanged"`
	HistoryLength   int  `json:"historyLength"`
	// Revision orders the events of one shipment; consumers drop anything at
	// or below the last revision they handled.
	Revision   int64     `json:"revision"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Noteworthy reports whether the buyer has something new to learn.
func (e StatusChanged) Noteworthy() bool {
	return e.StatusChanged || e.EstimateChanged
}
