package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

const userColumns = `id, ip_fingerprint, trust_score, total_contributions, total_votes, is_banned, ban_reason, metadata, created_at, last_active`

type UserRepository interface {
	GetByFingerprint(fingerprint string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Create(fingerprint string) (*models.User, error)
	RecordContribution(id string) error
	RecordVote(id string) error
	SetBanned(id string, banned bool, reason *string) error
	AdjustTrust(id string, delta int, reason, actor string) (int, error)
	Count() (int, error)
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByFingerprint(fingerprint string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ip_fingerprint = $1`
	err := r.db.Get(&user, query, fingerprint)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a fresh identity with the baseline trust score. A concurrent
// first-sight request may win the insert race; that surfaces as ErrConflict
// and the caller re-fetches instead of erroring.
func (r *userRepository) Create(fingerprint string) (*models.User, error) {
	var user models.User
	query := `INSERT INTO users (id, ip_fingerprint, trust_score)
	          VALUES ($1, $2, $3)
	          RETURNING ` + userColumns
	err := r.db.QueryRowx(query, uuid.NewString(), fingerprint, models.DefaultTrustScore).StructScan(&user)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) RecordContribution(id string) error {
	query := `UPDATE users SET total_contributions = total_contributions + 1, last_active = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *userRepository) RecordVote(id string) error {
	query := `UPDATE users SET total_votes = total_votes + 1, last_active = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *userRepository) SetBanned(id string, banned bool, reason *string) error {
	query := `UPDATE users SET is_banned = $1, ban_reason = $2 WHERE id = $3`
	_, err := r.db.Exec(query, banned, reason, id)
	return err
}

// AdjustTrust applies a clamped score delta and records the event in the
// trust_events ledger within one transaction. Returns the new score.
func (r *userRepository) AdjustTrust(id string, delta int, reason, actor string) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var score int
	query := `UPDATE users
	          SET trust_score = LEAST($1, GREATEST($2, trust_score + $3))
	          WHERE id = $4
	          RETURNING trust_score`
	if err := tx.Get(&score, query, models.MaxTrustScore, models.MinTrustScore, delta, id); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("user %s not found", id)
		}
		return 0, err
	}

	_, err = tx.Exec(`INSERT INTO trust_events (user_id, delta, reason, actor) VALUES ($1, $2, $3, $4)`,
		id, delta, reason, actor)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return score, nil
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users`)
	return count, err
}
