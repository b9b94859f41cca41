package models

import "time"

// Rating bounds for both direct tool ratings and opinion ratings.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Rating is a direct 1-5 tool rating, independent of any opinion. Repeat
// submissions upsert in place, so exactly one row exists per (tool, user).
type Rating struct {
	ID        string    `db:"id" json:"id"`
	ToolID    string    `db:"tool_id" json:"tool_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
