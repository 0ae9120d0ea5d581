package brackets

// MaxSeeds is the ceiling on seeded bracket slots for a participant
// count: a quarter of the next power-of-two bracket size, never below 2.
// The power of two is found by doubling rather than float log2, so exact
// powers of two do not pick up an extra round. Total over positive
// counts; tournaments below the 4-player minimum are the caller's
// problem, MaxSeeds(1) still answers 2.
func MaxSeeds(participantCount int) int {
	bracketSize := 1
	for bracketSize < participantCount {
		bracketSize <<= 1
	}
	quarter := bracketSize / 4
	if quarter < 2 {
		return 2
	}
	return quarter
}
