package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	t.Cleanup(reset)

	t.Run("Development", func(t *testing.T) {
		require.NoError(t, Init("development", "debug"))
		assert.True(t, Get().Core().Enabled(zap.DebugLevel))
	})

	t.Run("Production", func(t *testing.T) {
		require.NoError(t, Init("production", "info"))
		assert.False(t, Get().Core().Enabled(zap.DebugLevel))
		assert.True(t, Get().Core().Enabled(zap.InfoLevel))
	})

	t.Run("InvalidLevelKeepsDefault", func(t *testing.T) {
		require.NoError(t, Init("production", "loud"))
		assert.True(t, Get().Core().Enabled(zap.InfoLevel))
	})
}

func TestGet_BeforeInit(t *testing.T) {
	reset()
	assert.Same(t, nop, Get())

	require.NoError(t, Init("development", "info"))
	t.Cleanup(reset)
	assert.NotSame(t, nop, Get())
}

func TestNamed(t *testing.T) {
	reset()
	assert.NotNil(t, Named("tracking"))

	require.NoError(t, Init("development", "info"))
	t.Cleanup(reset)
	assert.Equal(t, "carriers", Named("carriers").Name())
}

func TestForShipment(t *testing.T) {
	require.NoError(t, Init("development", "info"))
	t.Cleanup(reset)

	l := ForShipment("tracking", "BLOC1234567801234567")
	assert.Equal(t, "tracking", l.Name())
}

func TestSync(t *testing.T) {
	reset()
	Sync()

	require.NoError(t, Init("development", "info"))
	t.Cleanup(reset)
	Sync()
}
