package models

import "time"

// Vote types.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// ValidVoteType reports whether t is "up" or "down".
func ValidVoteType(t string) bool {
	return t == VoteUp || t == VoteDown
}

// Vote toggle outcomes returned to the client.
const (
	VoteActionCreated = "created"
	VoteActionUpdated = "updated"
	VoteActionRemoved = "removed"
)

// Vote is a single up/down vote on an opinion. The unique index on
// (opinion_id, user_id) guarantees at most one row per voter per opinion.
type Vote struct {
	ID        string    `db:"id" json:"id"`
	OpinionID string    `db:"opinion_id" json:"opinion_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VoteType  string    `db:"vote_type" json:"vote_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
