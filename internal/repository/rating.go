package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

type RatingRepository interface {
	GetByToolAndUser(toolID, userID string) (*models.Rating, error)
	Create(rating *models.Rating) error
	Update(id string, rating int) error
}

type ratingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRatingRepository(db *sqlx.DB, logger *zap.Logger) RatingRepository {
	return &ratingRepository{db: db, logger: logger}
}

func (r *ratingRepository) GetByToolAndUser(toolID, userID string) (*models.Rating, error) {
	var rating models.Rating
	query := `SELECT id, tool_id, user_id, rating, created_at, updated_at
	          FROM tool_ratings WHERE tool_id = $1 AND user_id = $2`
	err := r.db.Get(&rating, query, toolID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not rated yet
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Create(rating *models.Rating) error {
	query := `INSERT INTO tool_ratings (id, tool_id, user_id, rating)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowx(query, rating.ID, rating.ToolID, rating.UserID, rating.Rating).
		Scan(&rating.CreatedAt, &rating.UpdatedAt)
	return translateError(err)
}

func (r *ratingRepository) Update(id string, rating int) error {
	_, err := r.db.Exec(`UPDATE tool_ratings SET rating = $1, updated_at = NOW() WHERE id = $2`, rating, id)
	return err
}
