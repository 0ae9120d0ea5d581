package models

import "time"

type TournamentStatus string

const (
	TournamentStatusDraft     TournamentStatus = "draft"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusCanceled  TournamentStatus = "canceled"
)

// Tournament is a club-internal competition assembled from the current
// roster selection. Groups are fixed at creation time; the bracket itself
// is paired elsewhere, this side only decides group composition and the
// seed cap.
type Tournament struct {
	ID               int              `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Description      *string          `json:"description,omitempty" db:"description"`
	DesiredGroupSize int              `json:"desired_group_size" db:"desired_group_size"`
	SeedCap          int              `json:"seed_cap" db:"seed_cap"`
	Status           TournamentStatus `json:"status" db:"status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`

	Groups []TournamentGroup `json:"groups,omitempty" db:"-"`
}

// TournamentGroup is one sub-tournament. MemberIDs keeps the ranked order
// the partitioner produced; the UI may reorder members between groups
// before the tournament starts.
type TournamentGroup struct {
	ID           int   `json:"id" db:"id"`
	TournamentID int   `json:"tournament_id" db:"tournament_id"`
	Position     int   `json:"position" db:"position"`
	MemberIDs    []int `json:"member_ids" db:"member_ids"`
}
