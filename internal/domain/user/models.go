package user

import (
	"errors"
	"time"
)

// Subscription statuses a user moves through. New users start on trial.
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User represents a registered user of the application.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Status       string     `json:"status"`
	TrialEnd     *time.Time `json:"trialEnd,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new user
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Status       string
	TrialEnd     *time.Time
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
