package adapter

import (
	"context"
	"fmt"
	"net/url"

	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
)

// UPSAdapter handles tracking for UPS through its track API.
type UPSAdapter struct {
	*httpCarrier
}

// NewUPSAdapter creates a new UPSAdapter with the given settings.
func NewUPSAdapter(s Settings) *UPSAdapter {
	return &UPSAdapter{httpCarrier: newHTTPCarrier(domain.ProviderUPS, s)}
}

// upsResponse represents the JSON structure returned by the UPS track API.
type upsResponse struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				TrackingNumber string `json:"trackingNumber"`
				CurrentStatus  struct {
					Type        string `json:"type"`
					Code        string `json:"code"`
					Description string `json:"description"`
				} `json:"currentStatus"`
				Activity []struct {
					Location struct {
						Address struct {
							City          string `json:"city"`
							StateProvince string `json:"stateProvince"`
							Country       string `json:"country"`
						} `json:"address"`
					} `json:"location"`
					Status struct {
						Type        string `json:"type"`
						Description string `json:"description"`
					} `json:"status"`
					Date string `json:"date"`
					Time string `json:"time"`
				} `json:"activity"`
				DeliveryDate []struct {
					Type string `json:"type"`
					Date string `json:"date"`
				} `json:"deliveryDate"`
				DeliveryInformation struct {
					ReceivedBy string `json:"receivedBy"`
					Location   string `json:"location"`
					Signature  struct {
						Image string `json:"image"`
					} `json:"signature"`
					DeliveryPhoto struct {
						Photo string `json:"photo"`
					} `json:"deliveryPhoto"`
				} `json:"deliveryInformation"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

// upsCreateRequest is the body of POST {baseURL}/create.
type upsCreateRequest struct {
	ReferenceNumber string     `json:"referenceNumber"`
	ServiceCode     string     `json:"serviceCode"`
	ShipFrom        upsAddress `json:"shipFrom"`
	ShipTo          upsAddress `json:"shipTo"`
	Package         upsPackage `json:"package"`
}

type upsAddress struct {
	Name              string `json:"name,omitempty"`
	AddressLine       string `json:"addressLine,omitempty"`
	City              string `json:"city,omitempty"`
	StateProvinceCode string `json:"stateProvinceCode,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	CountryCode       string `json:"countryCode,omitempty"`
}

type upsPackage struct {
	Weight        float64 `json:"weight"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	DeclaredValue float64 `json:"declaredValue"`
}

var upsServices = map[domain.ServiceLevel]string{
	domain.ServiceExpress:  "01", // Next Day Air
	domain.ServicePriority: "02", // 2nd Day Air
	domain.ServiceStandard: "03", // Ground
	domain.ServiceEconomy:  "13", // Next Day Air Saver
}

// UPS reports dates as yyyymmdd and times as hhmmss.
const (
	upsDateLayout     = "20060102"
	upsDateTimeLayout = "20060102150405"
)

// Track retrieves the current tracking state from UPS.
func (a *UPSAdapter) Track(ctx context.Context, trackingNumber string) (*carrierdomain.RawTracking, error) {
	body, err := a.get(ctx, url.PathEscape(trackingNumber))
	if err != nil {
		return nil, err
	}
	return a.parseResponse(body)
}

func (a *UPSAdapter) parseResponse(body []byte) (*carrierdomain.RawTracking, error) {
	var resp upsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse ups response: %w", carrierdomain.ErrProviderUnavailable, err)
	}
	shipments := resp.TrackResponse.Shipment
	if len(shipments) == 0 || len(shipments[0].Package) == 0 {
		return nil, fmt.Errorf("%w: ups returned no packages", carrierdomain.ErrProviderUnavailable)
	}

	pkg := shipments[0].Package[0]
	raw := &carrierdomain.RawTracking{
		StatusCode:   pkg.CurrentStatus.Type,
		StatusText:   pkg.CurrentStatus.Description,
		SignedBy:     pkg.DeliveryInformation.ReceivedBy,
		SignatureURL: pkg.DeliveryInformation.Signature.Image,
		PhotoURL:     pkg.DeliveryInformation.DeliveryPhoto.Photo,
	}

	// Activities are listed newest first.
	if len(pkg.Activity) > 0 {
		latest := pkg.Activity[0]
		addr := latest.Location.Address
		raw.Location = joinLocation(addr.City, addr.StateProvince, addr.Country)
		raw.Description = latest.Status.Description
		raw.EventTime = parseTime(latest.Date+latest.Time, upsDateTimeLayout)
		if raw.StatusCode == "" {
			raw.StatusCode = latest.Status.Type
		}
	}
	if raw.Location == "" {
		raw.Location = pkg.DeliveryInformation.Location
	}

	for _, d := range pkg.DeliveryDate {
		// SDD: scheduled delivery date, RDD: rescheduled delivery date.
		if d.Type == "SDD" || d.Type == "RDD" {
			raw.EstimatedDelivery = parseTime(d.Date, upsDateLayout)
		}
	}

	return raw, nil
}

// Register announces the shipment to UPS.
func (a *UPSAdapter) Register(ctx context.Context, shipment *domain.Shipment) error {
	req := upsCreateRequest{
		ReferenceNumber: shipment.TrackingNumber,
		ServiceCode:     upsServices[shipment.Service],
		ShipFrom:        toUPSAddress(shipment.Origin),
		ShipTo:          toUPSAddress(shipment.Destination),
		Package: upsPackage{
			Weight:        shipment.Weight,
			Length:        shipment.Dimensions.Length,
			Width:         shipment.Dimensions.Width,
			Height:        shipment.Dimensions.Height,
			DeclaredValue: shipment.Value,
		},
	}
	_, err := a.post(ctx, "create", req)
	return err
}

func toUPSAddress(a domain.Address) upsAddress {
	return upsAddress{
		Name:              a.Name,
		AddressLine:       a.Street,
		City:              a.City,
		StateProvinceCode: a.Region,
		PostalCode:        a.PostalCode,
		CountryCode:       a.Country,
	}
}
