package models

import "time"

// MinOpinionLength is the minimum accepted opinion content length.
const MinOpinionLength = 10

// Opinion is authored review content. At most one opinion may exist per
// (tool, user) pair; the unique index on (tool_id, user_id) enforces this.
type Opinion struct {
	ID         string    `db:"id" json:"id"`
	ToolID     string    `db:"tool_id" json:"tool_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Content    string    `db:"content" json:"content"`
	Rating     *int      `db:"rating" json:"rating,omitempty"`
	VoteScore  int       `db:"vote_score" json:"vote_score"`
	TotalVotes int       `db:"total_votes" json:"total_votes"`
	IsFlagged  bool      `db:"is_flagged" json:"is_flagged"`
	FlagReason *string   `db:"flag_reason" json:"flag_reason,omitempty"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Joined from users for display.
	AuthorTrustScore *int `db:"author_trust_score" json:"author_trust_score,omitempty"`
}
