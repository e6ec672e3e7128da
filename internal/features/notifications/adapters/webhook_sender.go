package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/notifications/domain"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// WebhookSender implements ports.Sender by POSTing notifications as JSON.
type WebhookSender struct {
	client *http.Client
	url    string
}

// NewWebhookSender creates a new WebhookSender.
func NewWebhookSender(url, token string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		client: httpclient.NewClient(timeout, httpclient.WithBearerToken(token)),
		url:    url,
	}
}

// Send posts the notification. Any non-2xx response is an error.
func (s *WebhookSender) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification webhook returned status: %d", resp.StatusCode)
	}
	return nil
}

// LogSender implements ports.Sender by logging. Used when no webhook is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender() *LogSender {
	return &LogSender{logger: logger.Named("notifications")}
}

// Send logs the notification and never fails.
func (s *LogSender) Send(_ context.Context, n domain.Notification) error {
	s.logger.Info("Notification",
		zap.String("recipient", n.RecipientContact),
		zap.String("tracking_number", n.TrackingNumber),
		zap.String("status", string(n.Status)),
		zap.String("location", n.Location),
		zap.Time("estimated_delivery", n.EstimatedDelivery),
	)
	return nil
}
