package rand

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	id := NewRequestID(16)
	assert.Len(t, id, 16)
	for _, c := range id {
		assert.Contains(t, charset, string(c))
	}
	assert.NotEqual(t, id, NewRequestID(16))
}

func TestNewRecordID(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prefix := strconv.FormatInt(now.UnixMilli(), 36)

	id := NewRecordID(now)
	require.Len(t, id, len(prefix)+RecordSuffixLength)
	assert.Equal(t, prefix, id[:len(prefix)])

	seen := map[string]struct{}{}
	for range 1000 {
		seen[NewRecordID(now)] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}
