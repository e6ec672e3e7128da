package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/core/proxy"
	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps carrier response bodies.
const maxResponseBytes = 1 << 20

// Settings configures one carrier client.
type Settings struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Proxy     proxy.Settings
}

// httpCarrier holds the transport shared by every carrier: bearer auth,
// timeout, rate limit and circuit breaker.
type httpCarrier struct {
	provider domain.Provider
	baseURL  string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	logger   *zap.Logger
}

// statusError is returned for non-2xx carrier responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("carrier API returned status: %d", e.code)
}

func newHTTPCarrier(provider domain.Provider, s Settings) *httpCarrier {
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}

	limit := rate.Inf
	if s.RateLimit > 0 {
		limit = rate.Limit(s.RateLimit)
	}

	name := string(provider)
	log := logger.Named("carriers").With(zap.String("provider", name))
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A 404 means the carrier does not know the number yet; the carrier itself is healthy.
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500 && se.code != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Carrier circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &httpCarrier{
		provider: provider,
		baseURL:  strings.TrimRight(s.BaseURL, "/"),
		timeout:  s.Timeout,
		client: httpclient.NewClient(s.Timeout,
			httpclient.WithBearerToken(s.APIKey),
			httpclient.WithProxy(s.Proxy.URL()),
		),
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker,
		logger:  log,
	}
}

// get issues GET {baseURL}/{path} and returns the response body.
func (c *httpCarrier) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, "track", http.MethodGet, c.baseURL+"/"+path, nil)
}

// post issues POST {baseURL}/{path} with a JSON body.
func (c *httpCarrier) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", c.provider, err)
	}
	return c.do(ctx, "create", http.MethodPost, c.baseURL+"/"+path, body)
}

func (c *httpCarrier) do(ctx context.Context, operation, method, url string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.CarrierRequestDuration.WithLabelValues(string(c.provider), operation).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.CarrierRequests.WithLabelValues(string(c.provider), operation, "rate_limited").Inc()
		return nil, fmt.Errorf("%w: %s rate limit: %w", carrierdomain.ErrProviderUnavailable, c.provider, err)
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, url, body)
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.CarrierRequests.WithLabelValues(string(c.provider), operation, result).Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", carrierdomain.ErrProviderUnavailable, c.provider, operation, err)
	}

	metrics.CarrierRequests.WithLabelValues(string(c.provider), operation, "success").Inc()
	return data, nil
}

func (c *httpCarrier) roundTrip(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// parseTime accepts the timestamp layouts used by the supported carriers.
func parseTime(value string, layouts ...string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
