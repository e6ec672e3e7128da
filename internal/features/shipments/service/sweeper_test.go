package service

import (
	"context"
	"testing"
	"time"

	carrierdomain "shipment-tracker/internal/features/carriers/domain"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Sweep(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	first := f.createDHL(t)
	second := f.createDHL(t)
	_, err := f.svc.CreateShipment(ctx, CreateShipmentInput{Provider: "local"})
	require.NoError(t, err)

	f.carrier.On("Track", mock.Anything, first).Return(&carrierdomain.RawTracking{StatusCode: "transit"}, nil)
	f.carrier.On("Track", mock.Anything, second).Return(&carrierdomain.RawTracking{StatusCode: "delivered"}, nil)

	sweeper := NewSweeper(f.svc, f.repo, time.Minute, 2)
	require.NoError(t, sweeper.Sweep(ctx))

	got, err := f.repo.Find(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, got.Status)

	got, err = f.repo.Find(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	active, err := f.repo.ListActive(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first}, active)
	f.carrier.AssertNumberOfCalls(t, "Track", 2)
}

func TestSweeper_RunDisabled(t *testing.T) {
	f := newFixture(t, 0)
	sweeper := NewSweeper(f.svc, f.repo, 0, 0)

	done := make(chan struct{})
	go func() {
		sweeper.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when the interval is zero")
	}
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t, 0)
	sweeper := NewSweeper(f.svc, f.repo, 10*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
