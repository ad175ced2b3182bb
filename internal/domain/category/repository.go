package category

import "context"

// Repository defines the interface for category data access
type Repository interface {
	// DefaultIDByNameAndType resolves the id of a default category by its
	// exact name and type. Returns (0, nil) when no default category
	// matches; callers decide whether that is an error.
	DefaultIDByNameAndType(ctx context.Context, name, categoryType string) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]*Category, error)
	// EnsureDefaults seeds the default category set if none exists yet.
	EnsureDefaults(ctx context.Context) error
}
