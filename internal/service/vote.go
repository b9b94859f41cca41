package service

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toolbay/internal/broadcast"
	"toolbay/internal/models"
	"toolbay/internal/repository"
)

// VoteResult reports the toggle outcome and the refreshed opinion aggregates.
type VoteResult struct {
	Action     string       `json:"action"`
	Vote       *models.Vote `json:"vote,omitempty"`
	VoteScore  int          `json:"vote_score"`
	TotalVotes int          `json:"total_votes"`
}

// VoteService implements the three-state toggle per (opinion, identity):
// no vote -> voted on first cast, voted -> removed on a same-type repeat,
// voted -> flipped in place on an opposite-type cast. The unique index on
// (opinion_id, user_id) keeps the row count at zero or one under concurrency.
type VoteService interface {
	Toggle(identity *models.User, opinionID, voteType string) (*VoteResult, error)
}

type voteService struct {
	votes    repository.VoteRepository
	opinions repository.OpinionRepository
	users    repository.UserRepository
	hub      *broadcast.Hub
	logger   *zap.Logger
}

func NewVoteService(
	votes repository.VoteRepository,
	opinions repository.OpinionRepository,
	users repository.UserRepository,
	hub *broadcast.Hub,
	logger *zap.Logger,
) VoteService {
	return &voteService{votes: votes, opinions: opinions, users: users, hub: hub, logger: logger}
}

func (s *voteService) Toggle(identity *models.User, opinionID, voteType string) (*VoteResult, error) {
	if !models.ValidVoteType(voteType) {
		return nil, ErrInvalidVoteType
	}
	if identity.IsBanned {
		return nil, ErrAccountBanned
	}

	opinion, err := s.opinions.GetByID(opinionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up opinion: %w", err)
	}
	if opinion == nil {
		return nil, ErrOpinionNotFound
	}

	existing, err := s.votes.GetByOpinionAndUser(opinionID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing vote: %w", err)
	}

	result := &VoteResult{}
	switch {
	case existing == nil:
		vote := &models.Vote{
			ID:        uuid.NewString(),
			OpinionID: opinionID,
			UserID:    identity.ID,
			VoteType:  voteType,
		}
		if err := s.votes.Create(vote); err != nil {
			if err == repository.ErrConflict {
				// Concurrent vote from the same identity won the insert race.
				return nil, ErrDuplicateVote
			}
			return nil, fmt.Errorf("failed to create vote: %w", err)
		}
		result.Action = models.VoteActionCreated
		result.Vote = vote
		if err := s.users.RecordVote(identity.ID); err != nil {
			s.logger.Error("Failed to record vote count", zap.String("user_id", identity.ID), zap.Error(err))
		}

	case existing.VoteType == voteType:
		// Same type again cancels the vote.
		if err := s.votes.Delete(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to remove vote: %w", err)
		}
		result.Action = models.VoteActionRemoved

	default:
		// Opposite type flips the existing row in place; never two rows.
		if err := s.votes.UpdateType(existing.ID, voteType); err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
		existing.VoteType = voteType
		result.Action = models.VoteActionUpdated
		result.Vote = existing
	}

	score, total, err := s.opinions.RecomputeVoteTotals(opinionID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute vote totals: %w", err)
	}
	result.VoteScore = score
	result.TotalVotes = total

	s.hub.Publish(broadcast.RoomForTool(opinion.ToolID), broadcast.EventVoteUpdated, map[string]interface{}{
		"opinion_id":  opinionID,
		"action":      result.Action,
		"vote_score":  score,
		"total_votes": total,
	})
	return result, nil
}
