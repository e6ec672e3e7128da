package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-tracker/internal/features/notifications/domain"
	shipmentdomain "shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSender_Send(t *testing.T) {
	var got domain.Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer notify-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := domain.Notification{
		RecipientContact:  "ana@example.com",
		TrackingNumber:    "BLOC1",
		Status:            shipmentdomain.StatusOutForDelivery,
		Location:          "Bogota",
		Description:       "On vehicle",
		EstimatedDelivery: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}

	err := NewWebhookSender(server.URL, "notify-token", time.Second).Send(context.Background(), n)

	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestWebhookSender_SendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewWebhookSender(server.URL, "", time.Second).Send(context.Background(), domain.Notification{})

	assert.EqualError(t, err, "notification webhook returned status: 400")
}

func TestLogSender_Send(t *testing.T) {
	assert.NoError(t, NewLogSender().Send(context.Background(), domain.Notification{TrackingNumber: "BLOC1"}))
}
