package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseCounterID(t *testing.T) {
	id, err := ParseCounterID("  550E8400-E29B-41D4-A716-446655440000 ")
	require.NoError(t, err)
	assert.Equal(t, CounterID("550e8400-e29b-41d4-a716-446655440000"), id)

	empty, err := ParseCounterID("   ")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseCounterID("not-a-uuid")
	assert.Error(t, err)
}

func TestParseCounterID_ObjectID(t *testing.T) {
	id, err := ParseCounterID(" 65F1A2B3C4D5E6F708192A3B ")
	require.NoError(t, err)
	assert.Equal(t, CounterID("65f1a2b3c4d5e6f708192a3b"), id)

	for _, bad := range []string{"65f1a2b3c4d5e6f708192a3", "65f1a2b3c4d5e6f708192a3z", "65f1a2b3c4d5e6f708192a3b0"} {
		_, err := ParseCounterID(bad)
		assert.Error(t, err, bad)
	}
}
