package brackets

import "sort"

const (
	MinGroupSize = 3
	MaxGroupSize = 99
)

// ClampGroupSize forces a requested group size into the supported range.
func ClampGroupSize(size int) int {
	if size < MinGroupSize {
		return MinGroupSize
	}
	if size > MaxGroupSize {
		return MaxGroupSize
	}
	return size
}

// PartitionGroups splits the selected members into groups of close to
// desiredSize players each. Members are ordered by rank ascending;
// unranked members go last, ordered by descending rating (a missing
// rating counts as 0, which is a deliberate product rule, not a bug).
// With n members and k = ceil(n/desiredSize) groups, the first n mod k
// groups take one extra member and the ranked order is sliced into
// contiguous blocks, so group sizes never differ by more than one and the
// strongest members fill the first group. This is a plain block split,
// not a snake distribution.
//
// desiredSize must already be clamped to a valid positive value; an
// empty selection yields an empty result.
func PartitionGroups(selected []int, ranks map[int]int, ratings map[int]int, desiredSize int) [][]int {
	n := len(selected)
	if n == 0 {
		return [][]int{}
	}

	ordered := make([]int, n)
	copy(ordered, selected)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		ra, aok := ranks[a]
		rb, bok := ranks[b]
		switch {
		case aok && bok:
			return ra < rb
		case aok != bok:
			return aok
		default:
			if ratings[a] != ratings[b] {
				return ratings[a] > ratings[b]
			}
			return a < b
		}
	})

	k := (n + desiredSize - 1) / desiredSize
	base := n / k
	remainder := n % k

	groups := make([][]int, 0, k)
	offset := 0
	for g := 0; g < k; g++ {
		size := base
		if g < remainder {
			size++
		}
		groups = append(groups, ordered[offset:offset+size])
		offset += size
	}
	return groups
}
