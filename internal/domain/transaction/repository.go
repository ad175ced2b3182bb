package transaction

import "context"

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
	ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*Transaction, error)
	// FindByExternalID returns (nil, nil) when no transaction carries the
	// given aggregator id. The lookup is global, not scoped to an account
	// or user, matching the dedup key used by the sync pass.
	FindByExternalID(ctx context.Context, externalID string) (*Transaction, error)
}
