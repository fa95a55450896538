package puzzle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDailyNumber(t *testing.T) {
	cal := DefaultCalendar()

	tests := []struct {
		name string
		now  string
		want int
	}{
		{name: "epoch reset", now: "2025-01-01T13:00:00Z", want: 1},
		{name: "before first reset clamps to one", now: "2025-01-01T12:59:59Z", want: 1},
		{name: "long before epoch clamps to one", now: "2024-06-01T12:00:00Z", want: 1},
		{name: "second day", now: "2025-01-02T13:00:00Z", want: 2},
		{name: "just before second reset", now: "2025-01-02T12:59:59Z", want: 1},
		{name: "mid january", now: "2025-01-15T14:00:00Z", want: 15},
		{name: "after midnight local still previous cycle", now: "2025-01-16T06:00:00Z", want: 15},
		{name: "leap year boundary", now: "2028-03-01T13:00:00Z", want: 1156},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.DailyNumber(utc(tt.now)))
		})
	}
}

func TestDailyNumberAcrossDSTTransitions(t *testing.T) {
	cal := DefaultCalendar()

	tests := []struct {
		name   string
		before string
		at     string
		want   int
	}{
		// 08:00 EDT is 12:00Z on the day clocks spring forward
		{name: "spring forward", before: "2025-03-09T11:59:59Z", at: "2025-03-09T12:00:00Z", want: 68},
		// 08:00 EST is 13:00Z on the day clocks fall back
		{name: "fall back", before: "2025-11-02T12:59:59Z", at: "2025-11-02T13:00:00Z", want: 306},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want-1, cal.DailyNumber(utc(tt.before)))
			assert.Equal(t, tt.want, cal.DailyNumber(utc(tt.at)))
		})
	}
}

func TestDailyNumberAdvancesOncePerLocalDay(t *testing.T) {
	cal := DefaultCalendar()
	now := utc("2025-01-01T13:00:00Z")
	prev := cal.DailyNumber(now)

	for range 400 * 24 {
		now = now.Add(time.Hour)
		n := cal.DailyNumber(now)
		require.Contains(t, []int{prev, prev + 1}, n)
		if n == prev+1 {
			local := now.In(cal.Location)
			require.Equal(t, DefaultResetHour, local.Hour(), "advanced at %s", local)
		}
		prev = n
	}
}

func TestCycleStartAndNextReset(t *testing.T) {
	cal := DefaultCalendar()
	now := utc("2025-03-08T20:00:00Z")

	start := cal.CycleStart(now)
	next := cal.NextReset(now)

	assert.True(t, start.Equal(utc("2025-03-08T13:00:00Z")))
	assert.True(t, next.Equal(utc("2025-03-09T12:00:00Z")))
	assert.Equal(t, 16*time.Hour, cal.TimeUntilNext(now))
}

func TestNewCalendarValidates(t *testing.T) {
	_, err := NewCalendar("Not/AZone", 8, DefaultEpoch)
	assert.Error(t, err)

	_, err = NewCalendar("UTC", 24, DefaultEpoch)
	assert.Error(t, err)

	_, err = NewCalendar("UTC", 0, "yesterday")
	assert.Error(t, err)

	cal, err := NewCalendar("UTC", 0, "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, cal.DailyNumber(utc("2025-01-01T00:00:00Z")))
	assert.Equal(t, 2, cal.DailyNumber(utc("2025-01-02T00:00:00Z")))
}
