package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"caixa/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, status, trial_end)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, status, trial_end, created_at, updated_at
	`

	var u user.User
	var trialEnd sql.NullTime
	var trialEndIn sql.NullTime
	if params.TrialEnd != nil {
		trialEndIn.Time = *params.TrialEnd
		trialEndIn.Valid = true
	}

	err := r.db.QueryRowContext(
		ctx, query,
		params.Name, strings.ToLower(params.Email), params.PasswordHash, params.Status, trialEndIn,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &trialEnd,
		&u.CreatedAt, &u.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if trialEnd.Valid {
		u.TrialEnd = &trialEnd.Time
	}

	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, status, trial_end, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	var trialEnd sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &trialEnd,
		&u.CreatedAt, &u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if trialEnd.Valid {
		u.TrialEnd = &trialEnd.Time
	}

	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, status, trial_end, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u user.User
	var trialEnd sql.NullTime

	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &trialEnd,
		&u.CreatedAt, &u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if trialEnd.Valid {
		u.TrialEnd = &trialEnd.Time
	}

	return &u, nil
}

// UpdateStatus changes a user's subscription status
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE users SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
