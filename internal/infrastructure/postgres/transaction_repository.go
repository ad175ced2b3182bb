package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"caixa/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (account_id, category_id, type, description, amount, date, origin, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, account_id, category_id, type, description, amount, date, origin, external_id, created_at
	`

	var tx transaction.Transaction
	var externalID sql.NullString

	err := r.db.QueryRowContext(
		ctx, query,
		params.AccountID, params.CategoryID, params.Type, params.Description,
		params.Amount, params.Date, params.Origin, nullString(params.ExternalID),
	).Scan(
		&tx.ID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Description,
		&tx.Amount, &tx.Date, &tx.Origin, &externalID, &tx.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if externalID.Valid {
		tx.ExternalID = externalID.String
	}

	return &tx, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.category_id, t.type, t.description, t.amount, t.date,
		       t.origin, t.external_id, t.created_at, c.name, a.account_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1
	`

	var tx transaction.Transaction
	var externalID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Description,
		&tx.Amount, &tx.Date, &tx.Origin, &externalID, &tx.CreatedAt,
		&tx.CategoryName, &tx.AccountName,
	)

	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if externalID.Valid {
		tx.ExternalID = externalID.String
	}

	return &tx, nil
}

// ListByUserID retrieves the most recent transactions across all accounts of a user
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.category_id, t.type, t.description, t.amount, t.date,
		       t.origin, t.external_id, t.created_at, c.name, a.account_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.date DESC, t.id DESC
		LIMIT $2
	`

	return r.list(ctx, query, userID, limit)
}

// ListByAccountID retrieves the most recent transactions of a single account
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.category_id, t.type, t.description, t.amount, t.date,
		       t.origin, t.external_id, t.created_at, c.name, a.account_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN accounts a ON a.id = t.account_id
		WHERE t.account_id = $1
		ORDER BY t.date DESC, t.id DESC
		LIMIT $2
	`

	return r.list(ctx, query, accountID, limit)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		var externalID sql.NullString

		err := rows.Scan(
			&tx.ID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Description,
			&tx.Amount, &tx.Date, &tx.Origin, &externalID, &tx.CreatedAt,
			&tx.CategoryName, &tx.AccountName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if externalID.Valid {
			tx.ExternalID = externalID.String
		}

		transactions = append(transactions, &tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// FindByExternalID finds a transaction by the aggregator-assigned identifier.
// The lookup is global across accounts, matching the sync dedup key.
func (r *TransactionRepository) FindByExternalID(ctx context.Context, externalID string) (*transaction.Transaction, error) {
	query := `
		SELECT id, account_id, category_id, type, description, amount, date, origin, external_id, created_at
		FROM transactions
		WHERE external_id = $1
		LIMIT 1
	`

	var tx transaction.Transaction
	var extID sql.NullString

	err := r.db.QueryRowContext(ctx, query, externalID).Scan(
		&tx.ID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Description,
		&tx.Amount, &tx.Date, &tx.Origin, &extID, &tx.CreatedAt,
	)

	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by external id: %w", err)
	}

	if extID.Valid {
		tx.ExternalID = extID.String
	}

	return &tx, nil
}
