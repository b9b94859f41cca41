package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTrustScore is the baseline assigned to a freshly created identity.
// Gating logic treats an unset score as this value, never as zero.
const DefaultTrustScore = 50

// Trust scores are clamped into [MinTrustScore, MaxTrustScore].
const (
	MinTrustScore = 0
	MaxTrustScore = 100
)

// User is the anonymous identity record keyed by request fingerprint.
// Users are never hard-deleted; moderation bans them via the is_banned flag.
type User struct {
	ID                 string    `db:"id" json:"id"`
	Fingerprint        string    `db:"ip_fingerprint" json:"-"`
	TrustScore         int       `db:"trust_score" json:"trust_score"`
	TotalContributions int       `db:"total_contributions" json:"total_contributions"`
	TotalVotes         int       `db:"total_votes" json:"total_votes"`
	IsBanned           bool      `db:"is_banned" json:"is_banned"`
	BanReason          *string   `db:"ban_reason" json:"ban_reason,omitempty"`
	Metadata           []byte    `db:"metadata" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	LastActive         time.Time `db:"last_active" json:"last_active"`
}

// TrustEvent records a single adjustment to a user's trust score.
type TrustEvent struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Delta     int       `db:"delta" json:"delta"`
	Reason    string    `db:"reason" json:"reason"`
	Actor     string    `db:"actor" json:"actor"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminClaims defines the JWT claims for moderator sessions.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
