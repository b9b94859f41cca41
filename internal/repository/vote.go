package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

type VoteRepository interface {
	GetByOpinionAndUser(opinionID, userID string) (*models.Vote, error)
	Create(vote *models.Vote) error
	UpdateType(id, voteType string) error
	Delete(id string) error
}

type voteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVoteRepository(db *sqlx.DB, logger *zap.Logger) VoteRepository {
	return &voteRepository{db: db, logger: logger}
}

func (r *voteRepository) GetByOpinionAndUser(opinionID, userID string) (*models.Vote, error) {
	var vote models.Vote
	query := `SELECT id, opinion_id, user_id, vote_type, created_at
	          FROM votes WHERE opinion_id = $1 AND user_id = $2`
	err := r.db.Get(&vote, query, opinionID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No vote yet
		}
		return nil, err
	}
	return &vote, nil
}

// Create inserts a vote row. The unique index on (opinion_id, user_id)
// guarantees at most one row per voter; a concurrent duplicate surfaces as
// ErrConflict.
func (r *voteRepository) Create(vote *models.Vote) error {
	query := `INSERT INTO votes (id, opinion_id, user_id, vote_type)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`
	err := r.db.QueryRowx(query, vote.ID, vote.OpinionID, vote.UserID, vote.VoteType).Scan(&vote.CreatedAt)
	return translateError(err)
}

func (r *voteRepository) UpdateType(id, voteType string) error {
	_, err := r.db.Exec(`UPDATE votes SET vote_type = $1 WHERE id = $2`, voteType, id)
	return err
}

func (r *voteRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM votes WHERE id = $1`, id)
	return err
}
