package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-tracker/internal/features/notifications/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPUserDirectory_Lookup_Success(t *testing.T) {
	mockResponse := `{
		"id": "buyer-1",
		"name": "Ana",
		"email": " ana@example.com ",
		"phone": "+573001112233",
		"notificationPreferences": {"email": false}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/buyer-1", r.URL.Path)
		assert.Equal(t, "Bearer users-token", r.Header.Get("Authorization"))
		w.Write([]byte(mockResponse))
	}))
	defer server.Close()

	dir := NewHTTPUserDirectory(server.URL+"/api/", "users-token", time.Second)

	contact, err := dir.Lookup(context.Background(), "buyer-1")

	require.NoError(t, err)
	assert.Equal(t, "buyer-1", contact.UserID)
	assert.Equal(t, "Ana", contact.Name)
	assert.Equal(t, "ana@example.com", contact.Email)
	assert.True(t, contact.EmailOptOut)
	assert.False(t, contact.SMSOptOut)
	assert.Equal(t, "+573001112233", contact.Address())
}

func TestHTTPUserDirectory_Lookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPUserDirectory(server.URL, "", time.Second).Lookup(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestHTTPUserDirectory_Lookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPUserDirectory(server.URL, "", time.Second).Lookup(context.Background(), "buyer-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrContactNotFound)
	assert.Contains(t, err.Error(), "503")
}
