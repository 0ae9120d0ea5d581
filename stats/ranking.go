package stats

import (
	"sort"

	"github.com/Dosada05/club-system/models"
)

// Rank assigns dense 1-based ranks to rated members, best rating first.
// Members with a nil rating get no entry. Equal ratings tie-break on
// ascending id, so the assignment is deterministic regardless of input
// order.
func Rank(members []models.Member) map[int]int {
	rated := make([]models.Member, 0, len(members))
	for _, m := range members {
		if m.Rating != nil {
			rated = append(rated, m)
		}
	}

	sort.Slice(rated, func(i, j int) bool {
		if *rated[i].Rating != *rated[j].Rating {
			return *rated[i].Rating > *rated[j].Rating
		}
		return rated[i].ID < rated[j].ID
	})

	ranks := make(map[int]int, len(rated))
	for i, m := range rated {
		ranks[m.ID] = i + 1
	}
	return ranks
}
