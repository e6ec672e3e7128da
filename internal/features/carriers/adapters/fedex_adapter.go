package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
)

// FedExAdapter handles tracking for FedEx through its track API.
type FedExAdapter struct {
	*httpCarrier
}

// NewFedExAdapter creates a new FedExAdapter with the given settings.
func NewFedExAdapter(s Settings) *FedExAdapter {
	return &FedExAdapter{httpCarrier: newHTTPCarrier(domain.ProviderFedEx, s)}
}

type fedexLocation struct {
	City                string `json:"city"`
	StateOrProvinceCode string `json:"stateOrProvinceCode"`
	CountryCode         string `json:"countryCode"`
}

// fedexResponse represents the JSON structure returned by the FedEx track API.
type fedexResponse struct {
	Output struct {
		CompleteTrackResults []struct {
			TrackingNumber string `json:"trackingNumber"`
			TrackResults   []struct {
				LatestStatusDetail struct {
					Code           string        `json:"code"`
					StatusByLocale string        `json:"statusByLocale"`
					Description    string        `json:"description"`
					ScanLocation   fedexLocation `json:"scanLocation"`
				} `json:"latestStatusDetail"`
				DateAndTimes []struct {
					Type     string `json:"type"`
					DateTime string `json:"dateTime"`
				} `json:"dateAndTimes"`
				EstimatedDeliveryTimeWindow struct {
					Window struct {
						Ends string `json:"ends"`
					} `json:"window"`
				} `json:"estimatedDeliveryTimeWindow"`
				DeliveryDetails struct {
					ReceivedByName string `json:"receivedByName"`
				} `json:"deliveryDetails"`
				Error *struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			} `json:"trackResults"`
		} `json:"completeTrackResults"`
	} `json:"output"`
}

// fedexCreateRequest is the body of POST {baseURL}/create.
type fedexCreateRequest struct {
	CustomerReference string          `json:"customerReference"`
	ServiceType       string          `json:"serviceType"`
	Shipper           fedexAddress    `json:"shipper"`
	Recipient         fedexAddress    `json:"recipient"`
	Package           fedexPackageDef `json:"requestedPackageLineItem"`
}

type fedexAddress struct {
	PersonName          string   `json:"personName,omitempty"`
	StreetLines         []string `json:"streetLines,omitempty"`
	City                string   `json:"city,omitempty"`
	StateOrProvinceCode string   `json:"stateOrProvinceCode,omitempty"`
	PostalCode          string   `json:"postalCode,omitempty"`
	CountryCode         string   `json:"countryCode,omitempty"`
}

type fedexPackageDef struct {
	Weight        float64 `json:"weight"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	DeclaredValue float64 `json:"declaredValue"`
}

var fedexServices = map[domain.ServiceLevel]string{
	domain.ServiceExpress:  "PRIORITY_OVERNIGHT",
	domain.ServicePriority: "FEDEX_2_DAY",
	domain.ServiceStandard: "FEDEX_GROUND",
	domain.ServiceEconomy:  "FEDEX_EXPRESS_SAVER",
}

// Track retrieves the current tracking state from FedEx.
func (a *FedExAdapter) Track(ctx context.Context, trackingNumber string) (*carrierdomain.RawTracking, error) {
	body, err := a.get(ctx, url.PathEscape(trackingNumber))
	if err != nil {
		return nil, err
	}
	return a.parseResponse(body)
}

func (a *FedExAdapter) parseResponse(body []byte) (*carrierdomain.RawTracking, error) {
	var resp fedexResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fedex response: %w", carrierdomain.ErrProviderUnavailable, err)
	}
	if len(resp.Output.CompleteTrackResults) == 0 || len(resp.Output.CompleteTrackResults[0].TrackResults) == 0 {
		return nil, fmt.Errorf("%w: fedex returned no track results", carrierdomain.ErrProviderUnavailable)
	}

	r := resp.Output.CompleteTrackResults[0].TrackResults[0]
	if r.Error != nil {
		return nil, fmt.Errorf("%w: fedex error %s: %s", carrierdomain.ErrProviderUnavailable, r.Error.Code, r.Error.Message)
	}

	var eventTime *time.Time
	for _, dt := range r.DateAndTimes {
		if dt.Type == "ACTUAL_DELIVERY" || (eventTime == nil && dt.Type == "ACTUAL_PICKUP") {
			eventTime = parseTime(dt.DateTime, time.RFC3339)
		}
	}

	d := r.LatestStatusDetail
	return &carrierdomain.RawTracking{
		StatusCode:        d.Code,
		StatusText:        d.StatusByLocale,
		Location:          joinLocation(d.ScanLocation.City, d.ScanLocation.StateOrProvinceCode, d.ScanLocation.CountryCode),
		Description:       d.Description,
		EventTime:         eventTime,
		EstimatedDelivery: parseTime(r.EstimatedDeliveryTimeWindow.Window.Ends, time.RFC3339),
		SignedBy:          r.DeliveryDetails.ReceivedByName,
	}, nil
}

// Register announces the shipment to FedEx.
func (a *FedExAdapter) Register(ctx context.Context, shipment *domain.Shipment) error {
	req := fedexCreateRequest{
		CustomerReference: shipment.TrackingNumber,
		ServiceType:       fedexServices[shipment.Service],
		Shipper:           toFedExAddress(shipment.Origin),
		Recipient:         toFedExAddress(shipment.Destination),
		Package: fedexPackageDef{
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

func toFedExAddress(a domain.Address) fedexAddress {
	out := fedexAddress{
		PersonName:          a.Name,
		City:                a.City,
		StateOrProvinceCode: a.Region,
		PostalCode:          a.PostalCode,
		CountryCode:         strings.ToUpper(a.Country),
	}
	if a.Street != "" {
		out.StreetLines = []string{a.Street}
	}
	return out
}

// joinLocation renders "City, Region, Country" skipping empty parts.
func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
