package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateTrackingNumber returns prefix + the last 8 digits of the unix millisecond
// timestamp + 8 random hex characters. Uniqueness is not guaranteed; the store's
// duplicate guard is the backstop.
func GenerateTrackingNumber(prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = DefaultTrackingPrefix
	}

	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate tracking suffix: %w", err)
	}

	return prefix + millis + strings.ToUpper(hex.EncodeToString(suffix)), nil
}
