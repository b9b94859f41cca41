package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

const opinionColumns = `o.id, o.tool_id, o.user_id, o.content, o.rating, o.vote_score, o.total_votes,
	o.is_flagged, o.flag_reason, o.is_approved, o.created_at, o.updated_at,
	u.trust_score AS author_trust_score`

type OpinionRepository interface {
	ListByTool(toolID string, limit, offset int) ([]*models.Opinion, error)
	GetByID(id string) (*models.Opinion, error)
	GetByToolAndUser(toolID, userID string) (*models.Opinion, error)
	Create(opinion *models.Opinion) error
	Update(opinion *models.Opinion) error
	RecomputeVoteTotals(id string) (score, total int, err error)
	Count() (int, error)
}

type opinionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewOpinionRepository(db *sqlx.DB, logger *zap.Logger) OpinionRepository {
	return &opinionRepository{db: db, logger: logger}
}

func (r *opinionRepository) ListByTool(toolID string, limit, offset int) ([]*models.Opinion, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var opinions []*models.Opinion
	query := `SELECT ` + opinionColumns + ` FROM opinions o
	          JOIN users u ON u.id = o.user_id
	          WHERE o.tool_id = $1 AND o.is_approved = true
	          ORDER BY o.vote_score DESC, o.created_at DESC
	          LIMIT $2 OFFSET $3`
	if err := r.db.Select(&opinions, query, toolID, limit, offset); err != nil {
		return nil, err
	}
	return opinions, nil
}

func (r *opinionRepository) GetByID(id string) (*models.Opinion, error) {
	var opinion models.Opinion
	query := `SELECT ` + opinionColumns + ` FROM opinions o
	          JOIN users u ON u.id = o.user_id
	          WHERE o.id = $1`
	err := r.db.Get(&opinion, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Opinion not found
		}
		return nil, err
	}
	return &opinion, nil
}

func (r *opinionRepository) GetByToolAndUser(toolID, userID string) (*models.Opinion, error) {
	var opinion models.Opinion
	query := `SELECT ` + opinionColumns + ` FROM opinions o
	          JOIN users u ON u.id = o.user_id
	          WHERE o.tool_id = $1 AND o.user_id = $2`
	err := r.db.Get(&opinion, query, toolID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &opinion, nil
}

// Create inserts a new opinion. The unique index on (tool_id, user_id) is the
// sole guard against double submission; a violation surfaces as ErrConflict.
func (r *opinionRepository) Create(opinion *models.Opinion) error {
	query := `INSERT INTO opinions (id, tool_id, user_id, content, rating)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING vote_score, total_votes, is_approved, created_at, updated_at`
	err := r.db.QueryRowx(query,
		opinion.ID, opinion.ToolID, opinion.UserID, opinion.Content, opinion.Rating,
	).Scan(&opinion.VoteScore, &opinion.TotalVotes, &opinion.IsApproved, &opinion.CreatedAt, &opinion.UpdatedAt)
	return translateError(err)
}

func (r *opinionRepository) Update(opinion *models.Opinion) error {
	query := `UPDATE opinions SET content = $1, rating = $2, updated_at = NOW()
	          WHERE id = $3
	          RETURNING updated_at`
	return r.db.QueryRowx(query, opinion.Content, opinion.Rating, opinion.ID).Scan(&opinion.UpdatedAt)
}

// RecomputeVoteTotals refreshes the cached vote_score and total_votes columns
// from the vote rows, so the caches never diverge after a toggle transition.
func (r *opinionRepository) RecomputeVoteTotals(id string) (int, int, error) {
	var result struct {
		Score int `db:"vote_score"`
		Total int `db:"total_votes"`
	}
	query := `UPDATE opinions SET
	            vote_score = COALESCE((SELECT SUM(CASE WHEN vote_type = 'up' THEN 1 ELSE -1 END) FROM votes WHERE opinion_id = $1), 0),
	            total_votes = (SELECT COUNT(*) FROM votes WHERE opinion_id = $1),
	            updated_at = NOW()
	          WHERE id = $1
	          RETURNING vote_score, total_votes`
	if err := r.db.Get(&result, query, id); err != nil {
		return 0, 0, err
	}
	return result.Score, result.Total, nil
}

func (r *opinionRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM opinions WHERE is_approved = true`)
	return count, err
}
