package models

import "time"

// Match is a recorded result between two club members. Player2ID may be
// nil for legacy imports where the opponent was never registered; a bye is
// never stored as a match. A match is immutable except for its score and
// the score-derived UpdatedAt.
type Match struct {
	ID        int        `json:"id" db:"id"`
	Player1ID int        `json:"player1_id" db:"player1_id"`
	Player2ID *int       `json:"player2_id,omitempty" db:"player2_id"`
	Score     *string    `json:"score,omitempty" db:"score"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// EffectiveDate is the date used for time-window aggregation: the last
// score update when present, the recording time otherwise.
func (m Match) EffectiveDate() time.Time {
	if m.UpdatedAt != nil {
		return *m.UpdatedAt
	}
	return m.CreatedAt
}

// Involves reports whether the given member played in this match.
func (m Match) Involves(memberID int) bool {
	if m.Player1ID == memberID {
		return true
	}
	return m.Player2ID != nil && *m.Player2ID == memberID
}
