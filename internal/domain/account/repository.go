package account

import "context"

// Repository defines the interface for account data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)
	// FindByExternalID returns (nil, nil) when the user has no account with
	// the given aggregator id. At most one row can match: the pair
	// (user_id, external_id) is unique.
	FindByExternalID(ctx context.Context, userID int64, externalID string) (*Account, error)
	UpdateBalance(ctx context.Context, id int64, balance float64) error
}
