package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"caixa/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (user_id, account_name, account_type, account_balance, institution, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, account_name, account_type, account_balance, institution, external_id, created_at, updated_at
	`

	var acc account.Account
	var institution, externalID sql.NullString

	err := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Name, params.AccountType, params.Balance,
		nullString(params.Institution), nullString(params.ExternalID),
	).Scan(
		&acc.ID, &acc.UserID, &acc.Name, &acc.AccountType, &acc.Balance,
		&institution, &externalID, &acc.CreatedAt, &acc.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if institution.Valid {
		acc.Institution = institution.String
	}
	if externalID.Valid {
		acc.ExternalID = externalID.String
	}

	return &acc, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, user_id, account_name, account_type, account_balance, institution, external_id, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	var institution, externalID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acc.ID, &acc.UserID, &acc.Name, &acc.AccountType, &acc.Balance,
		&institution, &externalID, &acc.CreatedAt, &acc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if institution.Valid {
		acc.Institution = institution.String
	}
	if externalID.Valid {
		acc.ExternalID = externalID.String
	}

	return &acc, nil
}

// ListByUserID retrieves all accounts for a specific user
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, account_name, account_type, account_balance, institution, external_id, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		var institution, externalID sql.NullString

		err := rows.Scan(
			&acc.ID, &acc.UserID, &acc.Name, &acc.AccountType, &acc.Balance,
			&institution, &externalID, &acc.CreatedAt, &acc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		if institution.Valid {
			acc.Institution = institution.String
		}
		if externalID.Valid {
			acc.ExternalID = externalID.String
		}

		accounts = append(accounts, &acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// FindByExternalID finds an account by the aggregator-assigned identifier,
// scoped to one user.
func (r *AccountRepository) FindByExternalID(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
	query := `
		SELECT id, user_id, account_name, account_type, account_balance, institution, external_id, created_at, updated_at
		FROM accounts
		WHERE external_id = $1 AND user_id = $2
		LIMIT 1
	`

	var acc account.Account
	var institution, extID sql.NullString

	err := r.db.QueryRowContext(ctx, query, externalID, userID).Scan(
		&acc.ID, &acc.UserID, &acc.Name, &acc.AccountType, &acc.Balance,
		&institution, &extID, &acc.CreatedAt, &acc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by external id: %w", err)
	}

	if institution.Valid {
		acc.Institution = institution.String
	}
	if extID.Valid {
		acc.ExternalID = extID.String
	}

	return &acc, nil
}

// UpdateBalance rewrites the stored balance for an account
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	query := `UPDATE accounts SET account_balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
