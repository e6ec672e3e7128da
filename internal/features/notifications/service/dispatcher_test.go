package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/features/notifications/domain"
	shipmentdomain "shipment-tracker/internal/features/shipments/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Lookup(ctx context.Context, userID string) (*domain.Contact, error) {
	args := m.Called(ctx, userID)
	contact, _ := args.Get(0).(*domain.Contact)
	return contact, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func setupDispatcher(t *testing.T) (*Dispatcher, *mockDirectory, *mockSender, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	dedupe, err := cache.NewRedisAdapter("redis://"+mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { dedupe.Close() })

	dir := &mockDirectory{}
	sender := &mockSender{}
	return NewDispatcher(dir, sender, dedupe, time.Hour), dir, sender, mr
}

func inTransitEvent() shipmentdomain.StatusChanged {
	return shipmentdomain.StatusChanged{
		TrackingNumber:    "BLOC1",
		Buyer:             "buyer-1",
		PreviousStatus:    shipmentdomain.StatusCreated,
		Status:            shipmentdomain.StatusInTransit,
		Location:          "Chicago",
		Description:       "Departed facility",
		EstimatedDelivery: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StatusChanged:     true,
		HistoryLength:     2,
		Revision:          2,
	}
}

func TestDispatcher_Dispatch_Sends(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)
	event := inTransitEvent()

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, domain.Notification{
		RecipientContact:  "ana@example.com",
		TrackingNumber:    "BLOC1",
		Status:            shipmentdomain.StatusInTransit,
		Location:          "Chicago",
		Description:       "Departed facility",
		EstimatedDelivery: event.EstimatedDelivery,
	}).Return(nil).Once()

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event))
	sender.AssertExpectations(t)
}

func TestDispatcher_Dispatch_SkipsUnchanged(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)
	event := inTransitEvent()
	event.StatusChanged = false

	assert.Equal(t, domain.OutcomeUnchanged, d.Dispatch(context.Background(), event))
	dir.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatcher_Dispatch_EstimateOnlyChangeIsNoteworthy(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)
	event := inTransitEvent()
	event.StatusChanged = false
	event.EstimateChanged = true

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Phone: "+100"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event))
}

func TestDispatcher_Dispatch_Redelivery(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)
	event := inTransitEvent()

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event))
	assert.Equal(t, domain.OutcomeDuplicate, d.Dispatch(context.Background(), event))
	sender.AssertNumberOfCalls(t, "Send", 1)

	event.HistoryLength = 3
	event.Revision = 3
	event.Status = shipmentdomain.StatusOutForDelivery
	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event))
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestDispatcher_Dispatch_FailedSendCanBeRetried(t *testing.T) {
	d, dir, sender, mr := setupDispatcher(t)
	event := inTransitEvent()

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	assert.Equal(t, domain.OutcomeFailed, d.Dispatch(context.Background(), event))
	assert.False(t, mr.Exists(markKey(event.TrackingNumber)))

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event))
	stored, err := mr.Get(markKey(event.TrackingNumber))
	require.NoError(t, err)
	assert.Equal(t, "2", stored)
}

func TestDispatcher_Dispatch_DropsOlderRevision(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)

	outForDelivery := inTransitEvent()
	outForDelivery.Status = shipmentdomain.StatusOutForDelivery
	outForDelivery.HistoryLength = 3
	outForDelivery.Revision = 3

	delivered := inTransitEvent()
	delivered.PreviousStatus = shipmentdomain.StatusOutForDelivery
	delivered.Status = shipmentdomain.StatusDelivered
	delivered.HistoryLength = 4
	delivered.Revision = 4

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Status == shipmentdomain.StatusDelivered
	})).Return(nil).Once()

	// The bus may hand events over in any order.
	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), delivered))
	assert.Equal(t, domain.OutcomeStale, d.Dispatch(context.Background(), outForDelivery))
	sender.AssertNumberOfCalls(t, "Send", 1)
	sender.AssertExpectations(t)
}

func TestDispatcher_Dispatch_RepeatedEstimateIsNotSuppressed(t *testing.T) {
	d, dir, sender, _ := setupDispatcher(t)
	original := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	moved := original.Add(48 * time.Hour)

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	for i, estimate := range []time.Time{original, moved, original} {
		event := inTransitEvent()
		event.StatusChanged = i == 0
		event.EstimateChanged = i > 0
		event.EstimatedDelivery = estimate
		event.Revision = int64(2 + i)

		assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), event), "revision %d", event.Revision)
	}
	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestDispatcher_Dispatch_FailedSendKeepsNotifiedRevision(t *testing.T) {
	d, dir, sender, mr := setupDispatcher(t)
	first := inTransitEvent()
	second := inTransitEvent()
	second.Status = shipmentdomain.StatusOutForDelivery
	second.Revision = 3

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), first))
	assert.Equal(t, domain.OutcomeFailed, d.Dispatch(context.Background(), second))

	stored, err := mr.Get(markKey(first.TrackingNumber))
	require.NoError(t, err)
	assert.Equal(t, "2", stored)
}

func TestDispatcher_Dispatch_NoBuyer(t *testing.T) {
	d, dir, _, _ := setupDispatcher(t)
	event := inTransitEvent()
	event.Buyer = ""

	assert.Equal(t, domain.OutcomeNoBuyer, d.Dispatch(context.Background(), event))
	dir.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestDispatcher_Dispatch_NoContact(t *testing.T) {
	tests := []struct {
		name    string
		contact *domain.Contact
		err     error
		want    domain.Outcome
	}{
		{name: "unknown buyer", err: fmt.Errorf("%w: buyer-1", domain.ErrContactNotFound), want: domain.OutcomeNoContact},
		{name: "no channel", contact: &domain.Contact{Email: "a@example.com", EmailOptOut: true}, want: domain.OutcomeNoContact},
		{name: "directory down", err: errors.New("503"), want: domain.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, dir, sender, _ := setupDispatcher(t)
			dir.On("Lookup", mock.Anything, "buyer-1").Return(tt.contact, tt.err)

			assert.Equal(t, tt.want, d.Dispatch(context.Background(), inTransitEvent()))
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatcher_Dispatch_WithoutDedupeStore(t *testing.T) {
	dir := &mockDirectory{}
	sender := &mockSender{}
	d := NewDispatcher(dir, sender, nil, 0)

	dir.On("Lookup", mock.Anything, "buyer-1").Return(&domain.Contact{Email: "ana@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), inTransitEvent()))
	assert.Equal(t, domain.OutcomeSent, d.Dispatch(context.Background(), inTransitEvent()))
}
