package models

import "time"

// Member is a club roster entry. Rating is nil for members who have not
// played enough rated matches yet; only rated members receive a rank.
type Member struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Nickname  *string   `json:"nickname,omitempty" db:"nickname"`
	Rating    *int      `json:"rating,omitempty" db:"rating"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	AvatarKey *string   `json:"-" db:"avatar_key"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"-"`
}

func (m Member) RatingOrZero() int {
	if m.Rating == nil {
		return 0
	}
	return *m.Rating
}
