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

// DHLAdapter handles tracking for DHL through its shipment tracking API.
type DHLAdapter struct {
	*httpCarrier
}

// NewDHLAdapter creates a new DHLAdapter with the given settings.
func NewDHLAdapter(s Settings) *DHLAdapter {
	return &DHLAdapter{httpCarrier: newHTTPCarrier(domain.ProviderDHL, s)}
}

// dhlResponse represents the JSON structure returned by the DHL tracking API.
type dhlResponse struct {
	Shipments []struct {
		ID     string `json:"id"`
		Status struct {
			Timestamp string `json:"timestamp"`
			Location  struct {
				Address struct {
					AddressLocality string `json:"addressLocality"`
				} `json:"address"`
			} `json:"location"`
			StatusCode  string `json:"statusCode"`
			Status      string `json:"status"`
			Description string `json:"description"`
		} `json:"status"`
		EstimatedTimeOfDelivery string `json:"estimatedTimeOfDelivery"`
		Details                 struct {
			ProofOfDelivery struct {
				Timestamp    string `json:"timestamp"`
				SignatureURL string `json:"signatureUrl"`
				DocumentURL  string `json:"documentUrl"`
				Signed       struct {
					Name string `json:"name"`
				} `json:"signed"`
			} `json:"proofOfDelivery"`
		} `json:"details"`
	} `json:"shipments"`
}

// dhlCreateRequest is the body of POST {baseURL}/create.
type dhlCreateRequest struct {
	ShipmentReference string        `json:"shipmentReference"`
	ProductCode       string        `json:"productCode"`
	Shipper           dhlParty      `json:"shipper"`
	Receiver          dhlParty      `json:"receiver"`
	Weight            float64       `json:"weight"`
	Dimensions        dhlDimensions `json:"dimensions"`
	DeclaredValue     float64       `json:"declaredValue"`
}

type dhlParty struct {
	Name        string `json:"name,omitempty"`
	Street      string `json:"streetAddress,omitempty"`
	City        string `json:"addressLocality,omitempty"`
	Region      string `json:"addressRegion,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

type dhlDimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var dhlProducts = map[domain.ServiceLevel]string{
	domain.ServiceExpress:  "EXPRESS_WORLDWIDE",
	domain.ServicePriority: "EXPRESS_12",
	domain.ServiceStandard: "PARCEL",
	domain.ServiceEconomy:  "ECONOMY_SELECT",
}

// Track retrieves the current tracking state from DHL.
func (a *DHLAdapter) Track(ctx context.Context, trackingNumber string) (*carrierdomain.RawTracking, error) {
	body, err := a.get(ctx, url.PathEscape(trackingNumber))
	if err != nil {
		return nil, err
	}
	return a.parseResponse(body)
}

func (a *DHLAdapter) parseResponse(body []byte) (*carrierdomain.RawTracking, error) {
	var resp dhlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse dhl response: %w", carrierdomain.ErrProviderUnavailable, err)
	}
	if len(resp.Shipments) == 0 {
		return nil, fmt.Errorf("%w: dhl returned no shipments", carrierdomain.ErrProviderUnavailable)
	}

	s := resp.Shipments[0]
	pod := s.Details.ProofOfDelivery

	eventTime := parseTime(s.Status.Timestamp, time.RFC3339, "2006-01-02T15:04:05")
	if t := parseTime(pod.Timestamp, time.RFC3339, "2006-01-02T15:04:05"); t != nil {
		eventTime = t
	}

	return &carrierdomain.RawTracking{
		StatusCode:        s.Status.StatusCode,
		StatusText:        s.Status.Status,
		Location:          s.Status.Location.Address.AddressLocality,
		Description:       s.Status.Description,
		EventTime:         eventTime,
		EstimatedDelivery: parseTime(s.EstimatedTimeOfDelivery, time.RFC3339, "2006-01-02T15:04:05"),
		SignedBy:          pod.Signed.Name,
		SignatureURL:      pod.SignatureURL,
		PhotoURL:          pod.DocumentURL,
	}, nil
}

// Register announces the shipment to DHL.
func (a *DHLAdapter) Register(ctx context.Context, shipment *domain.Shipment) error {
	req := dhlCreateRequest{
		ShipmentReference: shipment.TrackingNumber,
		ProductCode:       dhlProducts[shipment.Service],
		Shipper:           toDHLParty(shipment.Origin),
		Receiver:          toDHLParty(shipment.Destination),
		Weight:            shipment.Weight,
		Dimensions: dhlDimensions{
			Length: shipment.Dimensions.Length,
			Width:  shipment.Dimensions.Width,
			Height: shipment.Dimensions.Height,
		},
		DeclaredValue: shipment.Value,
	}
	_, err := a.post(ctx, "create", req)
	return err
}

func toDHLParty(a domain.Address) dhlParty {
	return dhlParty{
		Name:        a.Name,
		Street:      a.Street,
		City:        a.City,
		Region:      a.Region,
		PostalCode:  a.PostalCode,
		CountryCode: strings.ToUpper(a.Country),
	}
}
