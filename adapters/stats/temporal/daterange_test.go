package temporal

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDays(t *testing.T) {
	start := time.Date(2024, 2, 27, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)

	days := ExpandDays(start, end, 1, time.UTC)
	require.Len(t, days, 5)
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), days[2])
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), days[4])
}

func TestExpandDays_Step(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	days := ExpandDays(start, end, 2, time.UTC)
	require.Len(t, days, 3)
	assert.Equal(t, 29, days[1].Day())
	assert.Equal(t, 2, days[2].Day())

	// a non-positive step behaves like 1
	assert.Len(t, ExpandDays(start, end, 0, time.UTC), 5)
}

func TestExpandDays_SameDayAndReversed(t *testing.T) {
	morning := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)

	assert.Len(t, ExpandDays(morning, evening, 1, time.UTC), 1)
	// same calendar day normalizes to an equal bound
	assert.Len(t, ExpandDays(evening, morning, 1, time.UTC), 1)

	reversed := ExpandDays(evening, morning.AddDate(0, 0, -1), 1, time.UTC)
	assert.NotNil(t, reversed)
	assert.Empty(t, reversed)
}

func TestExpandDays_DST(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// clocks go forward on 2024-03-31 in Rome
	start := time.Date(2024, 3, 30, 12, 0, 0, 0, rome)
	end := time.Date(2024, 4, 1, 12, 0, 0, 0, rome)

	days := ExpandDays(start, end, 1, rome)
	require.Len(t, days, 3)
	for _, d := range days {
		assert.Equal(t, 0, d.Hour())
	}
}

func TestExpandDays_MidnightDSTGap(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// on 2018-11-04 clocks jumped from 00:00 to 01:00, so that day starts at 01:00
	start := time.Date(2018, 11, 4, 10, 0, 0, 0, saoPaulo)
	end := time.Date(2018, 11, 6, 10, 0, 0, 0, saoPaulo)

	days := ExpandDays(start, end, 1, saoPaulo)
	require.Len(t, days, 3)

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format(dayLayout)
	}
	assert.Equal(t, []string{"2018-11-04", "2018-11-05", "2018-11-06"}, labels)
	assert.Equal(t, 1, days[0].Hour())
	assert.Equal(t, 0, days[1].Hour())
	assert.Equal(t, 0, days[2].Hour())
}
