package cache

import "time"

const (
	DefaultMemberMaxAge = 5 * time.Minute
	DefaultMatchMaxAge  = 1 * time.Minute
)

// Policy decides when cached collections are considered stale.
// Serving stale data is allowed: the refresh is fire-and-forget and its
// completion lands as a regular full replace.
type Policy struct {
	MemberMaxAge time.Duration
	MatchMaxAge  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MemberMaxAge: DefaultMemberMaxAge,
		MatchMaxAge:  DefaultMatchMaxAge,
	}
}

// staleChecker is satisfied by any EntityCache instantiation.
type staleChecker interface {
	IsStale(maxAge time.Duration) bool
}

func (p Policy) ShouldRefreshMembers(c staleChecker) bool {
	return c.IsStale(p.MemberMaxAge)
}

func (p Policy) ShouldRefreshMatches(c staleChecker) bool {
	return c.IsStale(p.MatchMaxAge)
}
