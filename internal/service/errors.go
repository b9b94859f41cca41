package service

import "errors"

var ( // Define custom errors surfaced to handlers
	ErrIdentityUnavailable = errors.New("identity could not be resolved")
	ErrAccountBanned       = errors.New("account has been banned")
	ErrDuplicateURL        = errors.New("a tool with this URL already exists")
	ErrDuplicateOpinion    = errors.New("an opinion for this tool was already submitted")
	ErrDuplicateVote       = errors.New("a vote for this opinion already exists")
	ErrToolNotFound        = errors.New("tool not found")
	ErrOpinionNotFound     = errors.New("opinion not found")
	ErrNotOwner            = errors.New("opinions can only be edited by their author")
	ErrInvalidVoteType     = errors.New("vote type must be \"up\" or \"down\"")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrContentTooShort     = errors.New("opinion content must be at least 10 characters")
	ErrInvalidURL          = errors.New("url must be a valid http or https address")
	ErrInvalidPricing      = errors.New("pricing must be one of free, freemium, subscription, one-time, unknown")
	ErrUnknownCategory     = errors.New("category does not exist")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
