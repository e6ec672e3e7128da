package adapter

import (
	"fmt"
	"slices"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// Registry resolves the carrier client of a provider.
// Only carriers with both a base URL and an API key are registered.
type Registry struct {
	clients map[domain.Provider]ports.CarrierClient
}

// NewRegistry builds a client for every configured carrier.
func NewRegistry(cfg config.CarriersConfig) *Registry {
	r := &Registry{clients: make(map[domain.Provider]ports.CarrierClient)}
	log := logger.Named("carriers")

	constructors := map[domain.Provider]func(Settings) ports.CarrierClient{
		domain.ProviderDHL:   func(s Settings) ports.CarrierClient { return NewDHLAdapter(s) },
		domain.ProviderFedEx: func(s Settings) ports.CarrierClient { return NewFedExAdapter(s) },
		domain.ProviderUPS:   func(s Settings) ports.CarrierClient { return NewUPSAdapter(s) },
	}

	if cfg.Proxy.HasProxy() {
		log.Info("Carrier egress proxy enabled", zap.String("proxy", cfg.Proxy.HostPort()))
	}

	for provider, build := range constructors {
		endpoint := cfg.Endpoint(string(provider))
		if !endpoint.Configured() {
			log.Warn("Carrier not configured, live tracking disabled", zap.String("provider", string(provider)))
			continue
		}
		r.clients[provider] = build(Settings{
			BaseURL:   endpoint.BaseURL,
			APIKey:    endpoint.APIKey,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			Proxy:     cfg.Proxy,
		})
	}

	return r
}

// Client implements ports.CarrierRegistry.
func (r *Registry) Client(provider domain.Provider) (ports.CarrierClient, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", carrierdomain.ErrProviderNotConfigured, provider)
	}
	return client, nil
}

// Providers lists the providers that have a client, sorted by name.
func (r *Registry) Providers() []domain.Provider {
	out := make([]domain.Provider, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
