package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialRanks(ids []int) map[int]int {
	ranks := make(map[int]int, len(ids))
	for i, id := range ids {
		ranks[id] = i + 1
	}
	return ranks
}

func TestPartitionSevenPlayersIntoThrees(t *testing.T) {
	selected := []int{1, 2, 3, 4, 5, 6, 7}
	groups := PartitionGroups(selected, sequentialRanks(selected), nil, 3)

	// k=3, base=2, remainder=1: sizes 3,2,2 sliced in ranked order.
	require.Len(t, groups, 3)
	assert.Equal(t, []int{1, 2, 3}, groups[0])
	assert.Equal(t, []int{4, 5}, groups[1])
	assert.Equal(t, []int{6, 7}, groups[2])
}

func TestPartitionEmptySelection(t *testing.T) {
	assert.Empty(t, PartitionGroups(nil, nil, nil, 4))
}

func TestPartitionSizeLargerThanSelection(t *testing.T) {
	selected := []int{1, 2, 3}
	groups := PartitionGroups(selected, sequentialRanks(selected), nil, 99)

	require.Len(t, groups, 1)
	assert.Equal(t, selected, groups[0])
}

func TestPartitionOrdersByRankNotInputOrder(t *testing.T) {
	selected := []int{5, 1, 3}
	ranks := map[int]int{1: 1, 3: 2, 5: 3}

	groups := PartitionGroups(selected, ranks, nil, 3)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{1, 3, 5}, groups[0])
}

func TestPartitionUnrankedGoLastByRating(t *testing.T) {
	// 1 and 2 are ranked; 8, 9, 10 are unranked with ratings 0/700/300
	// (a missing rating counts as zero).
	selected := []int{8, 9, 1, 10, 2}
	ranks := map[int]int{1: 1, 2: 2}
	ratings := map[int]int{1: 2000, 2: 1900, 9: 700, 10: 300}

	groups := PartitionGroups(selected, ranks, ratings, 5)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{1, 2, 9, 10, 8}, groups[0])
}

func TestPartitionCoverageProperty(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for size := MinGroupSize; size <= 10; size++ {
			t.Run(fmt.Sprintf("n=%d_size=%d", n, size), func(t *testing.T) {
				selected := make([]int, n)
				for i := range selected {
					selected[i] = 100 + i
				}

				groups := PartitionGroups(selected, sequentialRanks(selected), nil, size)

				seen := make(map[int]int)
				minSize, maxSize := n+1, 0
				for _, g := range groups {
					require.NotEmpty(t, g)
					if len(g) < minSize {
						minSize = len(g)
					}
					if len(g) > maxSize {
						maxSize = len(g)
					}
					for _, id := range g {
						seen[id]++
					}
				}

				require.Len(t, seen, n, "every selected member appears")
				for id, count := range seen {
					assert.Equal(t, 1, count, "member %d duplicated", id)
				}
				assert.LessOrEqual(t, maxSize-minSize, 1, "group sizes differ by more than one")
				assert.LessOrEqual(t, maxSize, size, "group exceeds desired size")
			})
		}
	}
}

func TestClampGroupSize(t *testing.T) {
	assert.Equal(t, MinGroupSize, ClampGroupSize(0))
	assert.Equal(t, MinGroupSize, ClampGroupSize(-5))
	assert.Equal(t, 4, ClampGroupSize(4))
	assert.Equal(t, MaxGroupSize, ClampGroupSize(100))
}
