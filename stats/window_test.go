package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowKeyRoundTrip(t *testing.T) {
	windows := []TimeWindow{
		{Period: PeriodToday},
		{Period: PeriodWeek},
		{Period: PeriodMonth},
		{Period: PeriodAll},
		{Period: PeriodCustom, CustomStart: "2025-01-01", CustomEnd: "2025-01-31"},
		{Period: PeriodCustom, CustomStart: "2025-01-01"},
	}

	for _, w := range windows {
		parsed, ok := ParseWindowKey(w.Key())
		require.True(t, ok, "key %q must parse", w.Key())
		assert.Equal(t, w, parsed)
	}
}

func TestWindowKeyParseRejectsGarbage(t *testing.T) {
	for _, key := range []string{
		"",
		"today",
		"today_",
		"fortnight__",
		"not a key at all",
	} {
		_, ok := ParseWindowKey(key)
		assert.False(t, ok, "key %q must not parse", key)
	}
}

func TestWindowKeyParseSurvivesSeparatorInStartBound(t *testing.T) {
	// ISO dates never contain the separator, but the parser must not
	// depend on that: the period is everything before the first
	// separator and the end bound everything after the last one.
	w, ok := ParseWindowKey("custom_2025_01_01_2025-01-31")
	require.True(t, ok)
	assert.Equal(t, PeriodCustom, w.Period)
	assert.Equal(t, "2025_01_01", w.CustomStart)
	assert.Equal(t, "2025-01-31", w.CustomEnd)
}

func TestWindowBoundsNamedPeriods(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)

	start, end, ok := TimeWindow{Period: PeriodToday}.Bounds(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, now, end)

	start, end, ok = TimeWindow{Period: PeriodWeek}.Bounds(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, now, end)

	start, end, ok = TimeWindow{Period: PeriodMonth}.Bounds(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, now, end)
}

func TestWindowBoundsCustom(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)
	w := TimeWindow{Period: PeriodCustom, CustomStart: "2025-06-01", CustomEnd: "2025-06-10"}

	start, end, ok := w.Bounds(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 6, 10, 23, 59, 59, 999000000, time.Local), end)

	// Both ends are inclusive.
	assert.True(t, withinRange(start, start, end))
	assert.True(t, withinRange(end, start, end))
	assert.False(t, withinRange(end.Add(time.Millisecond), start, end))
}

func TestWindowBoundsCustomMissingOrInvalid(t *testing.T) {
	now := time.Now()

	cases := []TimeWindow{
		{Period: PeriodCustom},
		{Period: PeriodCustom, CustomStart: "2025-06-01"},
		{Period: PeriodCustom, CustomEnd: "2025-06-10"},
		{Period: PeriodCustom, CustomStart: "June 1st", CustomEnd: "2025-06-10"},
	}
	for _, w := range cases {
		_, _, ok := w.Bounds(now)
		assert.False(t, ok, "window %+v must not resolve", w)
	}
}

func TestWindowUnbounded(t *testing.T) {
	assert.True(t, TimeWindow{Period: PeriodAll}.Unbounded())
	assert.False(t, TimeWindow{Period: PeriodToday}.Unbounded())

	_, _, ok := TimeWindow{Period: PeriodAll}.Bounds(time.Now())
	assert.False(t, ok, "the all period has no concrete bounds")
}
