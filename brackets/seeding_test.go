package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxSeedsKnownValues(t *testing.T) {
	cases := []struct {
		participants int
		want         int
	}{
		{1, 2},
		{2, 2},
		{4, 2},
		{8, 2},
		{9, 4},
		{16, 4},
		{17, 8}, // next power of two is 32
		{32, 8},
		{33, 16},
		{64, 16},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MaxSeeds(tc.participants), "MaxSeeds(%d)", tc.participants)
	}
}

func TestMaxSeedsMonotonicAndBounded(t *testing.T) {
	prev := 0
	for n := 1; n <= 1024; n++ {
		got := MaxSeeds(n)
		assert.GreaterOrEqual(t, got, 2, "MaxSeeds(%d)", n)
		assert.GreaterOrEqual(t, got, prev, "MaxSeeds must be non-decreasing at %d", n)
		prev = got
	}
}

func TestMaxSeedsExactPowersOfTwo(t *testing.T) {
	// An exact power of two is its own bracket size; the ceiling must
	// not round it up a level.
	for size := 4; size <= 256; size <<= 1 {
		quarter := size / 4
		if quarter < 2 {
			quarter = 2
		}
		assert.Equal(t, quarter, MaxSeeds(size), "MaxSeeds(%d)", size)
	}
}
