package normalizer

import "shipment-tracker/internal/features/shipments/domain"

// Carrier status vocabularies. Keys are lower-cased before lookup.

var dhlStatuses = map[string]domain.Status{
	"pre-transit":      domain.StatusProcessing,
	"picked-up":        domain.StatusPickedUp,
	"transit":          domain.StatusInTransit,
	"out-for-delivery": domain.StatusOutForDelivery,
	"delivered":        domain.StatusDelivered,
	"failure":          domain.StatusFailedDelivery,
	"returned":         domain.StatusReturned,
	"cancelled":        domain.StatusCancelled,
}

var fedexStatuses = map[string]domain.Status{
	"oc": domain.StatusCreated,        // Shipment information sent to FedEx
	"pm": domain.StatusProcessing,     // In progress
	"pu": domain.StatusPickedUp,       // Picked up
	"ar": domain.StatusInTransit,      // Arrived at FedEx location
	"dp": domain.StatusInTransit,      // Departed FedEx location
	"it": domain.StatusInTransit,      // In transit
	"od": domain.StatusOutForDelivery, // On FedEx vehicle for delivery
	"dl": domain.StatusDelivered,      // Delivered
	"de": domain.StatusFailedDelivery, // Delivery exception
	"rs": domain.StatusReturned,       // Return to shipper
	"ca": domain.StatusCancelled,      // Shipment cancelled
}

var upsStatuses = map[string]domain.Status{
	"m":  domain.StatusCreated,        // Manifest pickup
	"mv": domain.StatusProcessing,     // Billing information voided / reprocessed
	"p":  domain.StatusPickedUp,       // Pickup
	"i":  domain.StatusInTransit,      // In transit
	"o":  domain.StatusOutForDelivery, // Out for delivery
	"d":  domain.StatusDelivered,      // Delivered
	"x":  domain.StatusFailedDelivery, // Exception
	"rs": domain.StatusReturned,       // Returned to shipper
	"vc": domain.StatusCancelled,      // Voided / cancelled
}

var tables = map[domain.Provider]map[string]domain.Status{
	domain.ProviderDHL:   dhlStatuses,
	domain.ProviderFedEx: fedexStatuses,
	domain.ProviderUPS:   upsStatuses,
}
