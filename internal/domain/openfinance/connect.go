package openfinance

import (
	"context"
	"fmt"
	"strconv"

	"caixa/internal/infrastructure/openfinance"
)

// ConnectService issues widget connect tokens. One service covers both
// first-time connections (no item id) and reconnections of an existing item.
type ConnectService struct {
	client openfinance.ClientInterface
}

// NewConnectService creates a new connect service.
func NewConnectService(client openfinance.ClientInterface) *ConnectService {
	return &ConnectService{client: client}
}

// ConnectToken returns a short-lived token for the connection widget.
// itemID may be empty for a fresh connection.
func (s *ConnectService) ConnectToken(ctx context.Context, userID int64, itemID string) (string, error) {
	if !s.client.Configured() {
		return "", openfinance.ErrNotConfigured
	}

	token, err := s.client.CreateConnectToken(ctx, itemID, strconv.FormatInt(userID, 10))
	if err != nil {
		return "", fmt.Errorf("failed to create connect token for user %d: %w", userID, err)
	}
	return token, nil
}
