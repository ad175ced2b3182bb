package category

import "errors"

// Bucket names used when filing synced transactions. Every transaction
// imported from the aggregator lands in one of these two, regardless of
// what the remote category says.
const (
	FallbackIncomeName  = "Outras Receitas"
	FallbackExpenseName = "Outros Gastos"
)

// Domain errors
var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Category is a transaction classification bucket. Default categories are
// seeded once and shared by all users; user-created categories carry a
// non-nil UserID.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // income or expense
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	IsDefault bool   `json:"isDefault"`
	UserID    *int64 `json:"userId,omitempty"`
}
