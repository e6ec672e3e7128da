package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"shipment-tracker/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// BearerRoundTripper injects a bearer credential into every request.
type BearerRoundTripper struct {
	// Token is sent as "Authorization: Bearer <Token>".
	Token string
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip clones the request, sets the Authorization header and forwards it.
func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+b.Token)
	return b.Proxied.RoundTrip(r)
}

// Option customizes the client returned by NewClient.
type Option func(*options)

type options struct {
	token string
	proxy *url.URL
}

// WithBearerToken authenticates every request with the given token. Empty tokens are ignored.
func WithBearerToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithProxy routes every request through the given proxy. A nil URL disables proxying.
func WithProxy(u *url.URL) Option {
	return func(o *options) {
		o.proxy = u
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var base http.RoundTripper = http.DefaultTransport
	if o.proxy != nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = http.ProxyURL(o.proxy)
		base = t
	}

	var rt http.RoundTripper = &LoggingRoundTripper{Proxied: base}
	if o.token != "" {
		rt = &BearerRoundTripper{Token: o.token, Proxied: rt}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}
