package cache

import (
	"context"
	"time"
)

// Cache holds short-lived coordination keys: carrier poll cooldowns and
// per-shipment notification marks. Keys always expire.
type Cache interface {
	// SetNX stores value under key only if the key is absent and reports
	// whether this call took it.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// AdvanceMark raises the integer mark stored under key to mark when mark
	// is greater, refreshing ttl, and returns the mark held before the call
	// (0 when absent). The compare and the write are atomic.
	AdvanceMark(ctx context.Context, key string, mark int64, ttl time.Duration) (int64, error)

	// RestoreMark puts previous back under key, but only while key still
	// holds mark.
	RestoreMark(ctx context.Context, key string, mark, previous int64) error

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}
