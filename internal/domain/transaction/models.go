package transaction

import (
	"errors"
	"time"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction origins
const (
	OriginManual      = "manual"
	OriginOpenFinance = "openfinance"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction represents a single income or expense entry. Synced
// transactions carry the aggregator's id in ExternalID and are never
// modified after insertion.
type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"accountId"`
	CategoryID  int64     `json:"categoryId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Origin      string    `json:"origin"`
	ExternalID  string    `json:"externalId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Joined fields for list responses
	CategoryName string `json:"category,omitempty"`
	AccountName  string `json:"accountName,omitempty"`
}

// CreateParams contains parameters for creating a new transaction
type CreateParams struct {
	AccountID   int64
	CategoryID  int64
	Type        string
	Description string
	Amount      float64
	Date        time.Time
	Origin      string
	ExternalID  string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.AccountID <= 0 {
		return errors.New("valid account ID is required")
	}
	if p.CategoryID <= 0 {
		return errors.New("valid category ID is required")
	}
	if p.Type != TypeIncome && p.Type != TypeExpense {
		return errors.New("type must be income or expense")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	if p.Origin != OriginManual && p.Origin != OriginOpenFinance {
		return errors.New("origin must be manual or openfinance")
	}
	return nil
}
