package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingNumber(t *testing.T) {
	now := time.UnixMilli(1741608000123)

	tn, err := GenerateTrackingNumber("", now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BLOC08000123[0-9A-F]{8}$`), tn)

	tn, err = GenerateTrackingNumber("MKT", now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^MKT08000123[0-9A-F]{8}$`), tn)
}

func TestGenerateTrackingNumber_RandomSuffix(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 200)
	for range 200 {
		tn, err := GenerateTrackingNumber("BLOC", now)
		require.NoError(t, err)
		seen[tn] = struct{}{}
	}
	assert.Len(t, seen, 200, "same millisecond must still yield distinct numbers")
}
