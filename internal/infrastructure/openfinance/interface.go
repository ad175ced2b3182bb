package openfinance

import "context"

// ClientInterface abstracts the aggregator API for the sync and connect
// services, so tests can substitute a mock.
type ClientInterface interface {
	Configured() bool
	ListItems(ctx context.Context, clientUserID string) ([]Item, error)
	ListAccounts(ctx context.Context, itemID string) ([]Account, error)
	ListTransactions(ctx context.Context, accountID, from string) ([]Transaction, error)
	CreateConnectToken(ctx context.Context, itemID, clientUserID string) (string, error)
}

// Compile-time check
var _ ClientInterface = (*Client)(nil)
