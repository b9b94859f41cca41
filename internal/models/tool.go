package models

import (
	"time"

	"github.com/lib/pq"
)

// Pricing tiers accepted for a tool submission.
const (
	PricingFree         = "free"
	PricingFreemium     = "freemium"
	PricingSubscription = "subscription"
	PricingOneTime      = "one-time"
	PricingUnknown      = "unknown"
)

// ValidPricing reports whether p is one of the accepted pricing tiers.
func ValidPricing(p string) bool {
	switch p {
	case PricingFree, PricingFreemium, PricingSubscription, PricingOneTime, PricingUnknown:
		return true
	}
	return false
}

// Tool is a directory entry. The average_rating / total_votes / total_opinions
// columns are caches over tool_ratings and opinions and are recomputed after
// every write that touches them.
type Tool struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	URL           string         `db:"url" json:"url"`
	Favicon       *string        `db:"favicon" json:"favicon,omitempty"`
	CategoryID    *string        `db:"category_id" json:"category_id,omitempty"`
	Pricing       string         `db:"pricing" json:"pricing"`
	AverageRating float64        `db:"average_rating" json:"average_rating"`
	TotalVotes    int            `db:"total_votes" json:"total_votes"`
	TotalOpinions int            `db:"total_opinions" json:"total_opinions"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	IsSponsored   bool           `db:"is_sponsored" json:"is_sponsored"`
	IsFeatured    bool           `db:"is_featured" json:"is_featured"`
	IsApproved    bool           `db:"is_approved" json:"is_approved"`
	IsActive      bool           `db:"is_active" json:"is_active"`
	SubmittedBy   *string        `db:"submitted_by" json:"submitted_by,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`

	// Joined from categories; not a column on tools.
	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
}
