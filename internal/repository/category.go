package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

type CategoryRepository interface {
	GetActive() ([]*models.Category, error)
	Exists(id string) (bool, error)
}

type categoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCategoryRepository(db *sqlx.DB, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{db: db, logger: logger}
}

func (r *categoryRepository) GetActive() ([]*models.Category, error) {
	var categories []*models.Category
	query := `SELECT id, name, description, icon, sort_order, is_active, created_at
	          FROM categories WHERE is_active = true ORDER BY sort_order`
	if err := r.db.Select(&categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Exists(id string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND is_active = true)`, id)
	return exists, err
}
