package core

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeReferenceLocation(t *testing.T) {
	assert.Equal(t, time.UTC, TimeUTC.Location())
	assert.Equal(t, time.UTC, TimeReference("UTC").Location())
	assert.Equal(t, time.Local, TimeLocal.Location())
	assert.Equal(t, time.Local, TimeReference("").Location())
	assert.Equal(t, time.Local, TimeReference("Nowhere/Invalid").Location())
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Midnight(ts, time.UTC))

	// 23:30 UTC is already the next day three hours east
	east := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, east), Midnight(ts, east))
}

func TestFixedClock(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	var clock Clock = FixedClock(now)
	assert.True(t, clock.Now().Equal(now))
}

func TestStartOfDay_MidnightDSTGap(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	start := StartOfDay(2018, time.November, 4, saoPaulo)
	y, m, d := start.Date()
	assert.Equal(t, 2018, y)
	assert.Equal(t, time.November, m)
	assert.Equal(t, 4, d)
	assert.Equal(t, 1, start.Hour())
	assert.True(t, start.Equal(time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC)))

	// any moment of that day maps to the same start
	assert.True(t, Midnight(time.Date(2018, 11, 4, 18, 0, 0, 0, saoPaulo), saoPaulo).Equal(start))
}

func TestStartOfDay_Normalizes(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), StartOfDay(2024, time.February, 30, time.UTC))
}
