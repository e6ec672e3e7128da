package logger

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatermillAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var adapter watermill.LoggerAdapter = NewWatermillAdapter(zap.New(core))

	adapter.Info("subscribed", watermill.LogFields{"topic": "shipment.status_changed"})
	adapter.Trace("message received", nil)
	adapter.With(watermill.LogFields{"subscriber": "notifications"}).
		Error("handler failed", errors.New("boom"), watermill.LogFields{"message_uuid": "abc"})

	require.Equal(t, 3, logs.Len())

	entries := logs.All()
	assert.Equal(t, "subscribed", entries[0].Message)
	assert.Equal(t, "shipment.status_changed", entries[0].ContextMap()["topic"])
	assert.Equal(t, zap.DebugLevel, entries[1].Level)

	errEntry := entries[2]
	assert.Equal(t, zap.ErrorLevel, errEntry.Level)
	ctx := errEntry.ContextMap()
	assert.Equal(t, "notifications", ctx["subscriber"])
	assert.Equal(t, "abc", ctx["message_uuid"])
	assert.Equal(t, "boom", ctx["error"])
}
