package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

const toolColumns = `t.id, t.name, t.description, t.url, t.favicon, t.category_id, t.pricing,
	t.average_rating, t.total_votes, t.total_opinions, t.tags,
	t.is_sponsored, t.is_featured, t.is_approved, t.is_active, t.submitted_by,
	t.created_at, t.updated_at, c.name AS category_name`

// ToolFilter narrows the tool listing. Zero values mean "no filter".
type ToolFilter struct {
	CategoryID string
	Pricing    string
	Search     string
	Limit      int
	Offset     int
}

type ToolRepository interface {
	List(filter ToolFilter) ([]*models.Tool, error)
	GetByID(id string) (*models.Tool, error)
	GetActiveByURL(url string) (*models.Tool, error)
	Create(tool *models.Tool) error
	Update(tool *models.Tool) error
	SoftDelete(id string) error
	SetApproved(id string, approved bool) error
	RecomputeRatingAggregates(id string) (avg float64, total int, err error)
	RecomputeOpinionCount(id string) (int, error)
	CountActive() (int, error)
}

type toolRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewToolRepository(db *sqlx.DB, logger *zap.Logger) ToolRepository {
	return &toolRepository{db: db, logger: logger}
}

func (r *toolRepository) List(filter ToolFilter) ([]*models.Tool, error) {
	conditions := []string{"t.is_active = true", "t.is_approved = true"}
	args := []interface{}{}

	if filter.CategoryID != "" && filter.CategoryID != "all" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if filter.Pricing != "" {
		args = append(args, filter.Pricing)
		conditions = append(conditions, fmt.Sprintf("t.pricing = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("t.search_vector @@ websearch_to_tsquery('english', $%d)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM tools t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE %s
		ORDER BY t.average_rating DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d`,
		toolColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	var tools []*models.Tool
	if err := r.db.Select(&tools, query, args...); err != nil {
		return nil, err
	}
	return tools, nil
}

func (r *toolRepository) GetByID(id string) (*models.Tool, error) {
	var tool models.Tool
	query := `SELECT ` + toolColumns + ` FROM tools t
	          LEFT JOIN categories c ON c.id = t.category_id
	          WHERE t.id = $1 AND t.is_active = true`
	err := r.db.Get(&tool, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Tool not found
		}
		return nil, err
	}
	return &tool, nil
}

func (r *toolRepository) GetActiveByURL(url string) (*models.Tool, error) {
	var tool models.Tool
	query := `SELECT ` + toolColumns + ` FROM tools t
	          LEFT JOIN categories c ON c.id = t.category_id
	          WHERE t.url = $1 AND t.is_active = true`
	err := r.db.Get(&tool, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tool, nil
}

func (r *toolRepository) Create(tool *models.Tool) error {
	query := `INSERT INTO tools (id, name, description, url, favicon, category_id, pricing, tags, submitted_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at, is_approved, is_active`
	err := r.db.QueryRowx(query,
		tool.ID, tool.Name, tool.Description, tool.URL, tool.Favicon,
		tool.CategoryID, tool.Pricing, tool.Tags, tool.SubmittedBy,
	).Scan(&tool.CreatedAt, &tool.UpdatedAt, &tool.IsApproved, &tool.IsActive)
	return translateError(err)
}

func (r *toolRepository) Update(tool *models.Tool) error {
	query := `UPDATE tools
	          SET name = $1, description = $2, url = $3, favicon = $4, category_id = $5,
	              pricing = $6, tags = $7, updated_at = NOW()
	          WHERE id = $8 AND is_active = true
	          RETURNING updated_at`
	err := r.db.QueryRowx(query,
		tool.Name, tool.Description, tool.URL, tool.Favicon, tool.CategoryID,
		tool.Pricing, tool.Tags, tool.ID,
	).Scan(&tool.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	return translateError(err)
}

func (r *toolRepository) SoftDelete(id string) error {
	res, err := r.db.Exec(`UPDATE tools SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *toolRepository) SetApproved(id string, approved bool) error {
	res, err := r.db.Exec(`UPDATE tools SET is_approved = $1, updated_at = NOW() WHERE id = $2 AND is_active = true`, approved, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecomputeRatingAggregates refreshes the cached average_rating and
// total_votes columns from the tool_ratings rows.
func (r *toolRepository) RecomputeRatingAggregates(id string) (float64, int, error) {
	var result struct {
		Avg   float64 `db:"average_rating"`
		Total int     `db:"total_votes"`
	}
	query := `UPDATE tools SET
	            average_rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM tool_ratings WHERE tool_id = $1), 0),
	            total_votes = (SELECT COUNT(*) FROM tool_ratings WHERE tool_id = $1),
	            updated_at = NOW()
	          WHERE id = $1
	          RETURNING average_rating, total_votes`
	if err := r.db.Get(&result, query, id); err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Total, nil
}

// RecomputeOpinionCount refreshes the cached total_opinions column.
func (r *toolRepository) RecomputeOpinionCount(id string) (int, error) {
	var total int
	query := `UPDATE tools SET
	            total_opinions = (SELECT COUNT(*) FROM opinions WHERE tool_id = $1 AND is_approved = true),
	            updated_at = NOW()
	          WHERE id = $1
	          RETURNING total_opinions`
	if err := r.db.Get(&total, query, id); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *toolRepository) CountActive() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM tools WHERE is_active = true AND is_approved = true`)
	return count, err
}
