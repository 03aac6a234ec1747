package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncIDGenerator_Shape(t *testing.T) {
	g := NewSyncIDGenerator()

	id := g.Generate()
	parts := strings.SplitN(id, "-", 2)
	require.Len(t, parts, 2)

	millis, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().UnixMilli(), millis, float64(5*time.Second/time.Millisecond))
	assert.NotEmpty(t, parts[1])
}

func TestSyncIDGenerator_Unique(t *testing.T) {
	g := NewSyncIDGenerator()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := g.Generate()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
}
