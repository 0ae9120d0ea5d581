package stats

import (
	"sync"
	"time"

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/models"
)

// MatchCountIndex maintains, per time window, the number of matches each
// member played. Window entries are created lazily on first request and
// then kept consistent incrementally: a recorded or removed match only
// recounts the one or two members it touches, never the whole roster.
// The full scan over the matches cache runs at most once per distinct
// window, on the first request.
type MatchCountIndex struct {
	mu      sync.Mutex
	matches *cache.EntityCache[models.Match]
	windows map[string]map[int]int
	now     func() time.Time
}

func NewMatchCountIndex(matches *cache.EntityCache[models.Match]) *MatchCountIndex {
	return &MatchCountIndex{
		matches: matches,
		windows: make(map[string]map[int]int),
		now:     time.Now,
	}
}

// RecordMatch upserts the match into the underlying cache and brings
// every existing window entry up to date for the two touched members.
// Other members' counts are left alone. isNew only distinguishes a fresh
// result from a score correction for the callers' benefit; the recount
// is identical either way.
func (idx *MatchCountIndex) RecordMatch(match models.Match, isNew bool) {
	idx.matches.Upsert(match)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.recountMembers(match.Player1ID, match.Player2ID)
}

// RemoveMatch deletes the match from the underlying cache and recounts
// the two members it involved against the remaining matches.
func (idx *MatchCountIndex) RemoveMatch(matchID int, player1ID int, player2ID *int) {
	idx.matches.Remove(matchID)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.recountMembers(player1ID, player2ID)
}

// Counts returns the per-member match counts for the window. The first
// request for a window scans the full matches cache once and caches the
// result; later requests are map lookups. A custom window missing one of
// its bounds yields an empty map and caches nothing.
func (idx *MatchCountIndex) Counts(w TimeWindow) map[int]int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if w.Period == PeriodCustom && (w.CustomStart == "" || w.CustomEnd == "") {
		return map[int]int{}
	}

	key := w.Key()
	if counts, ok := idx.windows[key]; ok {
		return copyCounts(counts)
	}

	counts := idx.computeWindow(w)
	idx.windows[key] = counts
	return copyCounts(counts)
}

// ReplaceAll installs a fresh snapshot of the matches collection and
// recomputes every existing window entry in full, so a fetch completion
// that lands after incremental updates leaves the index consistent.
func (idx *MatchCountIndex) ReplaceAll(matches []models.Match) {
	idx.matches.SetAll(matches)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for key := range idx.windows {
		w, ok := ParseWindowKey(key)
		if !ok {
			continue
		}
		idx.windows[key] = idx.computeWindow(w)
	}
}

// Clear drops every window entry. Used on an explicit full refresh.
func (idx *MatchCountIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.windows = make(map[string]map[int]int)
}

// Matches exposes the cached match list for read paths.
func (idx *MatchCountIndex) Matches() []models.Match {
	return idx.matches.Get()
}

// MatchesCache exposes the underlying cache for staleness checks.
func (idx *MatchCountIndex) MatchesCache() *cache.EntityCache[models.Match] {
	return idx.matches
}

// recountMembers recomputes the counts of the touched members in every
// existing window entry. Windows whose keys fail to parse should not
// exist; they are skipped rather than trusted. Callers hold idx.mu.
func (idx *MatchCountIndex) recountMembers(player1ID int, player2ID *int) {
	if len(idx.windows) == 0 {
		return
	}

	all := idx.matches.Get()
	now := idx.now()

	for key, counts := range idx.windows {
		w, ok := ParseWindowKey(key)
		if !ok {
			continue
		}

		var start, end time.Time
		if !w.Unbounded() {
			var bounded bool
			start, end, bounded = w.Bounds(now)
			if !bounded {
				continue
			}
		}

		setCount(counts, player1ID, countMatches(all, player1ID, w, start, end))
		if player2ID != nil {
			setCount(counts, *player2ID, countMatches(all, *player2ID, w, start, end))
		}
	}
}

// computeWindow builds a window entry from scratch, counting both ends of
// every match whose effective date falls inside the window. Callers hold
// idx.mu.
func (idx *MatchCountIndex) computeWindow(w TimeWindow) map[int]int {
	counts := make(map[int]int)

	all := idx.matches.Get()
	if len(all) == 0 {
		return counts
	}

	var start, end time.Time
	if !w.Unbounded() {
		var bounded bool
		start, end, bounded = w.Bounds(idx.now())
		if !bounded {
			return counts
		}
	}

	for _, m := range all {
		if !w.Unbounded() && !withinRange(m.EffectiveDate(), start, end) {
			continue
		}
		counts[m.Player1ID]++
		if m.Player2ID != nil {
			counts[*m.Player2ID]++
		}
	}
	return counts
}

// countMatches counts the matches one member played inside the window.
// The all period is a fast path with no date comparison.
func countMatches(matches []models.Match, memberID int, w TimeWindow, start, end time.Time) int {
	n := 0
	for _, m := range matches {
		if !m.Involves(memberID) {
			continue
		}
		if w.Unbounded() || withinRange(m.EffectiveDate(), start, end) {
			n++
		}
	}
	return n
}

// setCount keeps zero counts out of the map so an incrementally updated
// entry stays structurally identical to a fresh full computation.
func setCount(counts map[int]int, memberID, n int) {
	if n == 0 {
		delete(counts, memberID)
		return
	}
	counts[memberID] = n
}

func copyCounts(counts map[int]int) map[int]int {
	out := make(map[int]int, len(counts))
	for id, n := range counts {
		out[id] = n
	}
	return out
}
