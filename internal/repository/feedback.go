package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	List(limit, offset int) ([]*models.Feedback, error)
}

type feedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{db: db, logger: logger}
}

func (r *feedbackRepository) Create(feedback *models.Feedback) error {
	query := `INSERT INTO feedback (id, user_id, subject, message, email)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`
	return r.db.QueryRowx(query,
		feedback.ID, feedback.UserID, feedback.Subject, feedback.Message, feedback.Email,
	).Scan(&feedback.CreatedAt)
}

func (r *feedbackRepository) List(limit, offset int) ([]*models.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var items []*models.Feedback
	query := `SELECT id, user_id, subject, message, email, created_at
	          FROM feedback ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.Select(&items, query, limit, offset); err != nil {
		return nil, err
	}
	return items, nil
}
