package stats

import (
	"testing"
	"time"

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var indexNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)

func newTestIndex(matches ...models.Match) *MatchCountIndex {
	c := cache.NewEntityCache(func(m models.Match) int { return m.ID })
	idx := NewMatchCountIndex(c)
	idx.now = func() time.Time { return indexNow }
	idx.ReplaceAll(matches)
	return idx
}

func match(id, p1 int, p2 *int, playedAt time.Time) models.Match {
	return models.Match{ID: id, Player1ID: p1, Player2ID: p2, CreatedAt: playedAt}
}

func intPtr(v int) *int { return &v }

func roundRobinMatches(playedAt time.Time) []models.Match {
	return []models.Match{
		match(1, 1, intPtr(2), playedAt),
		match(2, 1, intPtr(3), playedAt),
		match(3, 2, intPtr(3), playedAt),
	}
}

func TestCountsAllWindow(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)

	counts := idx.Counts(TimeWindow{Period: PeriodAll})
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, counts)
}

func TestCountsIdempotent(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	w := TimeWindow{Period: PeriodAll}

	first := idx.Counts(w)
	second := idx.Counts(w)
	assert.Equal(t, first, second)
}

func TestRecordMatchUpdatesOnlyTouchedPlayers(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	w := TimeWindow{Period: PeriodAll}

	require.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, idx.Counts(w))

	idx.RecordMatch(match(4, 1, intPtr(4), indexNow), true)
	assert.Equal(t, map[int]int{1: 3, 2: 2, 3: 2, 4: 1}, idx.Counts(w))
}

func TestRecordMatchBeforeAnyWindowQueried(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)

	// No window exists yet, so the record must not create one.
	idx.RecordMatch(match(4, 1, intPtr(4), indexNow), true)
	assert.Empty(t, idx.windows)

	assert.Equal(t, map[int]int{1: 3, 2: 2, 3: 2, 4: 1},
		idx.Counts(TimeWindow{Period: PeriodAll}))
}

func TestRemoveMatchRecounts(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	w := TimeWindow{Period: PeriodAll}
	idx.Counts(w)

	idx.RemoveMatch(1, 1, intPtr(2))
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 2}, idx.Counts(w))

	// Removing a member's last match drops the zero entry entirely.
	idx.RemoveMatch(2, 1, intPtr(3))
	assert.Equal(t, map[int]int{2: 1, 3: 1}, idx.Counts(w))
}

func TestCountsBoundedWindowFiltersByEffectiveDate(t *testing.T) {
	inWindow := indexNow.Add(-2 * time.Hour)
	outOfWindow := indexNow.AddDate(0, 0, -3)

	idx := newTestIndex(
		match(1, 1, intPtr(2), inWindow),
		match(2, 1, intPtr(3), outOfWindow),
	)

	counts := idx.Counts(TimeWindow{Period: PeriodToday})
	assert.Equal(t, map[int]int{1: 1, 2: 1}, counts)
}

func TestScoreUpdateMovesMatchIntoWindow(t *testing.T) {
	old := indexNow.AddDate(0, 0, -3)
	idx := newTestIndex(match(1, 1, intPtr(2), old))
	today := TimeWindow{Period: PeriodToday}

	require.Empty(t, idx.Counts(today))

	// A score correction bumps the effective date into today's window.
	updated := match(1, 1, intPtr(2), old)
	updatedAt := indexNow.Add(-time.Minute)
	updated.UpdatedAt = &updatedAt
	idx.RecordMatch(updated, false)

	assert.Equal(t, map[int]int{1: 1, 2: 1}, idx.Counts(today))
}

func TestCountsNilSecondPlayer(t *testing.T) {
	idx := newTestIndex(match(1, 7, nil, indexNow.Add(-time.Hour)))

	counts := idx.Counts(TimeWindow{Period: PeriodAll})
	assert.Equal(t, map[int]int{7: 1}, counts)
}

func TestCountsCustomWindowMissingBound(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)

	w := TimeWindow{Period: PeriodCustom, CustomStart: "2025-06-01"}
	assert.Empty(t, idx.Counts(w))
	assert.NotContains(t, idx.windows, w.Key(), "incomplete window must not be cached")
}

func TestClearDropsAllWindows(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	idx.Counts(TimeWindow{Period: PeriodAll})
	idx.Counts(TimeWindow{Period: PeriodToday})
	require.Len(t, idx.windows, 2)

	idx.Clear()
	assert.Empty(t, idx.windows)
}

func TestUnparseableWindowKeySkipped(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	idx.windows["fortnight__"] = map[int]int{99: 99}

	// Must not panic, and must leave the broken entry alone.
	idx.RecordMatch(match(4, 1, intPtr(4), indexNow), true)
	assert.Equal(t, map[int]int{99: 99}, idx.windows["fortnight__"])
}

// TestIncrementalEqualsFullRecompute drives a mutation sequence through
// the index and checks every touched window against a from-scratch
// recomputation over the final match set.
func TestIncrementalEqualsFullRecompute(t *testing.T) {
	windows := []TimeWindow{
		{Period: PeriodAll},
		{Period: PeriodToday},
		{Period: PeriodWeek},
		{Period: PeriodCustom, CustomStart: "2025-06-10", CustomEnd: "2025-06-14"},
	}

	seed := []models.Match{
		match(1, 1, intPtr(2), indexNow.Add(-time.Hour)),
		match(2, 2, intPtr(3), indexNow.AddDate(0, 0, -2)),
		match(3, 3, intPtr(4), indexNow.AddDate(0, 0, -10)),
		match(4, 5, nil, indexNow.AddDate(0, 0, -4)),
	}

	idx := newTestIndex(seed...)
	for _, w := range windows {
		idx.Counts(w)
	}

	idx.RecordMatch(match(5, 1, intPtr(4), indexNow.Add(-30*time.Minute)), true)
	idx.RemoveMatch(2, 2, intPtr(3))
	idx.RecordMatch(match(6, 2, intPtr(5), indexNow.AddDate(0, 0, -3)), true)
	rescored := match(3, 3, intPtr(4), indexNow.AddDate(0, 0, -10))
	rescoredAt := indexNow.Add(-10 * time.Minute)
	rescored.UpdatedAt = &rescoredAt
	idx.RecordMatch(rescored, false)
	idx.RemoveMatch(4, 5, nil)

	fresh := newTestIndex(idx.Matches()...)
	for _, w := range windows {
		assert.Equal(t, fresh.Counts(w), idx.Counts(w), "window %s diverged", w.Key())
	}
}

func TestReplaceAllRecomputesExistingWindows(t *testing.T) {
	idx := newTestIndex(roundRobinMatches(indexNow.Add(-time.Hour))...)
	w := TimeWindow{Period: PeriodAll}
	require.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, idx.Counts(w))

	idx.ReplaceAll([]models.Match{match(9, 8, intPtr(9), indexNow)})
	assert.Equal(t, map[int]int{8: 1, 9: 1}, idx.Counts(w))
}
