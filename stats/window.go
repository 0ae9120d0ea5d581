package stats

import (
	"strings"
	"time"
)

type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
	PeriodAll    Period = "all"
)

const (
	windowKeySeparator = "_"
	customDateLayout   = "2006-01-02"
)

// TimeWindow scopes match-count aggregation to a date range. CustomStart
// and CustomEnd are ISO calendar dates and are only meaningful when the
// period is custom.
type TimeWindow struct {
	Period      Period
	CustomStart string
	CustomEnd   string
}

func validPeriod(p Period) bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodCustom, PeriodAll:
		return true
	}
	return false
}

// Key serializes the window to the form period_start_end. The custom
// bounds are ISO dates, which never contain the separator, so the key is
// unambiguous.
func (w TimeWindow) Key() string {
	return string(w.Period) + windowKeySeparator + w.CustomStart + windowKeySeparator + w.CustomEnd
}

// ParseWindowKey reconstructs a window from its key. The period is the
// text before the first separator and the custom end is the text after
// the last one, so a start bound containing the separator would still
// round-trip; a blind 3-way split would not.
func ParseWindowKey(key string) (TimeWindow, bool) {
	period, rest, ok := strings.Cut(key, windowKeySeparator)
	if !ok {
		return TimeWindow{}, false
	}
	sep := strings.LastIndex(rest, windowKeySeparator)
	if sep < 0 {
		return TimeWindow{}, false
	}
	w := TimeWindow{
		Period:      Period(period),
		CustomStart: rest[:sep],
		CustomEnd:   rest[sep+1:],
	}
	if !validPeriod(w.Period) {
		return TimeWindow{}, false
	}
	return w, true
}

// Unbounded reports whether the window admits every match regardless of
// date.
func (w TimeWindow) Unbounded() bool {
	return w.Period == PeriodAll
}

// Bounds resolves the window to a concrete inclusive [start, end] range
// relative to now. The named periods start at local midnight and end at
// now; a custom window spans 00:00:00.000 of its start day through
// 23:59:59.999 of its end day. ok is false for an unbounded window, a
// custom window missing a bound, or an unparseable custom date.
func (w TimeWindow) Bounds(now time.Time) (start, end time.Time, ok bool) {
	switch w.Period {
	case PeriodToday:
		return startOfDay(now), now, true
	case PeriodWeek:
		return startOfDay(now.AddDate(0, 0, -7)), now, true
	case PeriodMonth:
		return startOfDay(now.AddDate(0, -1, 0)), now, true
	case PeriodCustom:
		if w.CustomStart == "" || w.CustomEnd == "" {
			return time.Time{}, time.Time{}, false
		}
		s, err := time.ParseInLocation(customDateLayout, w.CustomStart, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		e, err := time.ParseInLocation(customDateLayout, w.CustomEnd, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return s, e.AddDate(0, 0, 1).Add(-time.Millisecond), true
	}
	return time.Time{}, time.Time{}, false
}

func withinRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
