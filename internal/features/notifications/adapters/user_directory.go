package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/features/notifications/domain"

	"github.com/goccy/go-json"
)

// HTTPUserDirectory implements ports.ContactDirectory against the marketplace user API.
type HTTPUserDirectory struct {
	client  *http.Client
	baseURL string
}

// NewHTTPUserDirectory creates a new HTTPUserDirectory.
func NewHTTPUserDirectory(baseURL, token string, timeout time.Duration) *HTTPUserDirectory {
	return &HTTPUserDirectory{
		client:  httpclient.NewClient(timeout, httpclient.WithBearerToken(token)),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// userRecord represents the JSON structure of a user from the directory API.
type userRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Preferences struct {
		// Email and SMS default to enabled when absent.
		Email *bool `json:"email"`
		SMS   *bool `json:"sms"`
	} `json:"notificationPreferences"`
}

// Lookup fetches a user and maps it to a contact.
func (d *HTTPUserDirectory) Lookup(ctx context.Context, userID string) (*domain.Contact, error) {
	endpoint := fmt.Sprintf("%s/users/%s", d.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrContactNotFound, userID)
		}
		return nil, fmt.Errorf("user directory returned status: %d", resp.StatusCode)
	}

	var user userRecord
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.Contact{
		UserID:      firstNonEmpty(user.ID, userID),
		Name:        user.Name,
		Email:       strings.TrimSpace(user.Email),
		Phone:       strings.TrimSpace(user.Phone),
		EmailOptOut: user.Preferences.Email != nil && !*user.Preferences.Email,
		SMSOptOut:   user.Preferences.SMS != nil && !*user.Preferences.SMS,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
