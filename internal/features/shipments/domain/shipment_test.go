package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestShipment() *Shipment {
	return NewShipment(NewShipmentParams{
		TrackingNumber: "BLOC12345678ABCDEF01",
		OrderID:        "order-1",
		Seller:         "seller-1",
		Buyer:          "buyer-1",
		Provider:       ProviderLocal,
		Service:        ServiceExpress,
		Origin:         Address{City: "NYC"},
		Destination:    Address{City: "LA"},
	}, fixedNow)
}

// assertHistoryInvariants checks the append-only history invariants.
func assertHistoryInvariants(t *testing.T, s *Shipment) {
	t.Helper()
	require.NotEmpty(t, s.History)
	last, ok := s.LastEvent()
	require.True(t, ok)
	assert.Equal(t, s.Status, last.Status, "last history entry must match current status")
	for i := 1; i < len(s.History); i++ {
		assert.NotEqual(t, s.History[i-1].Status, s.History[i].Status, "consecutive duplicate at %d", i)
	}
}

func TestNewShipment(t *testing.T) {
	s := newTestShipment()

	assert.Equal(t, StatusCreated, s.Status)
	assert.Equal(t, "Order Created", string(s.Status))
	require.Len(t, s.History, 1)
	assert.Equal(t, "NYC", s.History[0].Location)
	assert.Equal(t, fixedNow.Add(24*time.Hour), s.EstimatedDelivery)
	assert.Equal(t, fixedNow, s.Metadata.Created)
	assert.Equal(t, fixedNow, s.Metadata.LastUpdated)
	assertHistoryInvariants(t, s)
}

func TestEstimateDelivery(t *testing.T) {
	tests := []struct {
		service ServiceLevel
		days    int
	}{
		{ServiceExpress, 1},
		{ServicePriority, 2},
		{ServiceStandard, 5},
		{ServiceEconomy, 7},
		{ServiceLevel("teleport"), 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.service), func(t *testing.T) {
			assert.Equal(t, fixedNow.AddDate(0, 0, tt.days), EstimateDelivery(tt.service, fixedNow))
		})
	}
	assert.Equal(t, ServiceStandard, ParseServiceLevel(""))
	assert.Equal(t, ServiceEconomy, ParseServiceLevel("ECONOMY"))
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("FedEx")
	require.NoError(t, err)
	assert.Equal(t, ProviderFedEx, p)
	assert.True(t, p.IsCarrier())

	p, err = ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, p)
	assert.False(t, p.IsCarrier())

	_, err = ParseProvider("pigeon")
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestParsePartyRole(t *testing.T) {
	r, err := ParsePartyRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleBuyer, r)

	r, err = ParsePartyRole("Seller")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParsePartyRole("courier")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestShipment_ApplyUpdate(t *testing.T) {
	t.Run("AppendsOnChange", func(t *testing.T) {
		s := newTestShipment()
		later := fixedNow.Add(time.Hour)

		appended, err := s.ApplyUpdate(StatusUpdate{Status: StatusInTransit, Location: "Chicago"}, later)
		require.NoError(t, err)
		assert.True(t, appended)
		require.Len(t, s.History, 2)
		assert.Equal(t, StatusInTransit, s.History[1].Status)
		assert.Equal(t, "Chicago", s.History[1].Location)
		assert.Equal(t, later, s.History[1].Timestamp)
		assert.Equal(t, later, s.Metadata.LastUpdated)
		assertHistoryInvariants(t, s)
	})

	t.Run("SameStatusIsIdempotent", func(t *testing.T) {
		s := newTestShipment()
		_, err := s.ApplyUpdate(StatusUpdate{Status: StatusInTransit, Location: "Chicago"}, fixedNow)
		require.NoError(t, err)

		appended, err := s.ApplyUpdate(StatusUpdate{Status: StatusInTransit, Location: "Denver"}, fixedNow)
		require.NoError(t, err)
		assert.False(t, appended)
		assert.Len(t, s.History, 2)
		assert.Equal(t, "Chicago", s.History[1].Location, "existing entries are never mutated")
		assertHistoryInvariants(t, s)
	})

	t.Run("EmptyStatusKeepsCurrentAndUpdatesEstimate", func(t *testing.T) {
		s := newTestShipment()
		eta := fixedNow.Add(72 * time.Hour)

		appended, err := s.ApplyUpdate(StatusUpdate{EstimatedDelivery: &eta}, fixedNow)
		require.NoError(t, err)
		assert.False(t, appended)
		assert.Equal(t, StatusCreated, s.Status)
		assert.Equal(t, eta, s.EstimatedDelivery)
		assert.Len(t, s.History, 1)
	})

	t.Run("RejectsIllegalTransition", func(t *testing.T) {
		s := newTestShipment()
		_, err := s.ApplyUpdate(StatusUpdate{Status: StatusDelivered}, fixedNow)
		require.NoError(t, err)

		appended, err := s.ApplyUpdate(StatusUpdate{Status: StatusProcessing}, fixedNow)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.False(t, appended)
		assert.Equal(t, StatusDelivered, s.Status)
		assert.Len(t, s.History, 2)
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		s := newTestShipment()
		_, err := s.ApplyUpdate(StatusUpdate{Status: "Teleported"}, fixedNow)
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Len(t, s.History, 1)
	})

	t.Run("ProofOnlyWhenDelivered", func(t *testing.T) {
		s := newTestShipment()
		proof := &DeliveryProof{Recipient: "J. Doe"}

		_, err := s.ApplyUpdate(StatusUpdate{Status: StatusInTransit, DeliveryProof: proof}, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, s.DeliveryProof)

		_, err = s.ApplyUpdate(StatusUpdate{Status: StatusDelivered, DeliveryProof: proof}, fixedNow)
		require.NoError(t, err)
		require.NotNil(t, s.DeliveryProof)
		assert.Equal(t, "J. Doe", s.DeliveryProof.Recipient)
		require.NotNil(t, s.DeliveryProof.Timestamp)
		assert.Equal(t, fixedNow, *s.DeliveryProof.Timestamp)
	})

	t.Run("KeepsUnmappedMarker", func(t *testing.T) {
		s := newTestShipment()
		_, err := s.ApplyUpdate(StatusUpdate{Status: StatusInTransit, RawStatus: "ZZ", Unmapped: true}, fixedNow)
		require.NoError(t, err)
		last, _ := s.LastEvent()
		assert.True(t, last.Unmapped)
		assert.Equal(t, "ZZ", last.RawStatus)
	})

	t.Run("MonotonicHistory", func(t *testing.T) {
		s := newTestShipment()
		sequence := []Status{
			StatusProcessing, StatusProcessing, StatusPickedUp, StatusInTransit, StatusPickedUp,
			StatusOutForDelivery, StatusFailedDelivery, StatusOutForDelivery, StatusDelivered, StatusInTransit,
		}
		prevLen := len(s.History)
		for _, next := range sequence {
			_, _ = s.ApplyUpdate(StatusUpdate{Status: next}, fixedNow)
			assert.GreaterOrEqual(t, len(s.History), prevLen)
			prevLen = len(s.History)
			assertHistoryInvariants(t, s)
		}
		assert.Equal(t, StatusDelivered, s.Status)
	})
}

func TestShipment_Pollable(t *testing.T) {
	s := newTestShipment()
	s.Metadata.AutoUpdate = true
	assert.False(t, s.Pollable(), "local shipments are never polled")

	s.Provider = ProviderUPS
	assert.True(t, s.Pollable())

	s.Metadata.AutoUpdate = false
	assert.False(t, s.Pollable())

	s.Metadata.AutoUpdate = true
	s.Status = StatusDelivered
	assert.False(t, s.Pollable())
}

func TestShipment_Summary(t *testing.T) {
	s := newTestShipment()
	summary := s.Summary()

	assert.Equal(t, s.TrackingNumber, summary.TrackingNumber)
	assert.Equal(t, "order-1", summary.OrderID)
	assert.Equal(t, StatusCreated, summary.Status)
	assert.Equal(t, ProviderLocal, summary.Provider)
	assert.Equal(t, fixedNow, summary.Created)
}
