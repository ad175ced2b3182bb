package account

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("access forbidden")
)

// Account represents a financial account domain entity. Accounts created by
// the Open Finance sync carry the aggregator's id in ExternalID; manually
// created accounts have no external id.
type Account struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"accountName"`
	AccountType string    `json:"accountType"`
	Balance     float64   `json:"accountBalance"`
	Institution string    `json:"institution"`
	ExternalID  string    `json:"externalId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	UserID      int64
	Name        string
	AccountType string
	Balance     float64
	Institution string
	ExternalID  string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if p.AccountType == "" {
		return errors.New("account type is required")
	}
	if p.Institution == "" {
		return errors.New("institution is required")
	}
	return nil
}
