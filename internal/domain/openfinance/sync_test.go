package openfinance

import (
	"context"
	"errors"
	"testing"
	"time"

	"caixa/internal/domain/account"
	"caixa/internal/domain/category"
	"caixa/internal/domain/transaction"
	"caixa/internal/infrastructure/openfinance"
)

type mockClient struct {
	configured             bool
	listItemsFunc          func(ctx context.Context, clientUserID string) ([]openfinance.Item, error)
	listAccountsFunc       func(ctx context.Context, itemID string) ([]openfinance.Account, error)
	listTransactionsFunc   func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error)
	createConnectTokenFunc func(ctx context.Context, itemID, clientUserID string) (string, error)
}

func (m *mockClient) Configured() bool { return m.configured }

func (m *mockClient) ListItems(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
	return m.listItemsFunc(ctx, clientUserID)
}

func (m *mockClient) ListAccounts(ctx context.Context, itemID string) ([]openfinance.Account, error) {
	return m.listAccountsFunc(ctx, itemID)
}

func (m *mockClient) ListTransactions(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
	return m.listTransactionsFunc(ctx, accountID, from)
}

func (m *mockClient) CreateConnectToken(ctx context.Context, itemID, clientUserID string) (string, error) {
	return m.createConnectTokenFunc(ctx, itemID, clientUserID)
}

type mockAccountRepo struct {
	createFunc           func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	findByExternalIDFunc func(ctx context.Context, userID int64, externalID string) (*account.Account, error)
	updateBalanceFunc    func(ctx context.Context, id int64, balance float64) error
}

func (m *mockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	return m.createFunc(ctx, params)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) FindByExternalID(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
	return m.findByExternalIDFunc(ctx, userID, externalID)
}

func (m *mockAccountRepo) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	return m.updateBalanceFunc(ctx, id, balance)
}

type mockTransactionRepo struct {
	createFunc           func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	findByExternalIDFunc func(ctx context.Context, externalID string) (*transaction.Transaction, error)
}

func (m *mockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	return m.createFunc(ctx, params)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) FindByExternalID(ctx context.Context, externalID string) (*transaction.Transaction, error) {
	return m.findByExternalIDFunc(ctx, externalID)
}

type mockCategoryRepo struct {
	defaultIDFunc func(ctx context.Context, name, categoryType string) (int64, error)
}

func (m *mockCategoryRepo) DefaultIDByNameAndType(ctx context.Context, name, categoryType string) (int64, error) {
	return m.defaultIDFunc(ctx, name, categoryType)
}

func (m *mockCategoryRepo) ListForUser(ctx context.Context, userID int64) ([]*category.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepo) EnsureDefaults(ctx context.Context) error { return nil }

func defaultCategoryResolver(ctx context.Context, name, categoryType string) (int64, error) {
	switch name {
	case category.FallbackIncomeName:
		return 10, nil
	case category.FallbackExpenseName:
		return 11, nil
	}
	return 0, nil
}

func TestSyncUserNotConfigured(t *testing.T) {
	service := NewSyncService(&mockClient{configured: false}, &mockAccountRepo{}, &mockTransactionRepo{}, &mockCategoryRepo{})

	_, err := service.SyncUser(context.Background(), 1)
	if !errors.Is(err, openfinance.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSyncUserSkipsNonUpdatedItems(t *testing.T) {
	accountsCalled := false
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			return []openfinance.Item{
				{ID: "item_1", Status: "LOGIN_ERROR"},
				{ID: "item_2", Status: "OUTDATED"},
			}, nil
		},
		listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
			accountsCalled = true
			return nil, nil
		},
	}

	service := NewSyncService(client, &mockAccountRepo{}, &mockTransactionRepo{}, &mockCategoryRepo{})
	result, err := service.SyncUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accountsCalled {
		t.Error("accounts must not be fetched for items that are not UPDATED")
	}
	if result.ItemsFound != 2 || result.AccountsSynced != 0 || result.TransactionsSynced != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSyncUserFirstPass(t *testing.T) {
	// One UPDATED item, one new remote account with one expense. Mirrors a
	// first-time connection end to end.
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			if clientUserID != "7" {
				t.Errorf("expected clientUserId 7, got %s", clientUserID)
			}
			return []openfinance.Item{
				{ID: "item_1", Status: "UPDATED", Connector: openfinance.Connector{Name: "Banco Teste"}},
			}, nil
		},
		listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
			return []openfinance.Account{
				{ID: "acc_1", Name: "Conta Corrente", Type: "BANK", Balance: 1000},
			}, nil
		},
		listTransactionsFunc: func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
			return []openfinance.Transaction{
				{ID: "tx_1", Description: "Mercado", Amount: -50, Date: "2025-05-20"},
			}, nil
		},
	}

	var createdAccount account.CreateParams
	accountRepo := &mockAccountRepo{
		findByExternalIDFunc: func(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
			createdAccount = params
			return &account.Account{ID: 100, UserID: params.UserID, ExternalID: params.ExternalID}, nil
		},
	}

	var createdTx transaction.CreateParams
	transactionRepo := &mockTransactionRepo{
		findByExternalIDFunc: func(ctx context.Context, externalID string) (*transaction.Transaction, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			createdTx = params
			return &transaction.Transaction{ID: 200}, nil
		},
	}

	service := NewSyncService(client, accountRepo, transactionRepo, &mockCategoryRepo{defaultIDFunc: defaultCategoryResolver})
	result, err := service.SyncUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AccountsSynced != 1 || result.TransactionsSynced != 1 {
		t.Errorf("expected 1 account and 1 transaction synced, got %+v", result)
	}
	if createdAccount.Institution != "Banco Teste" {
		t.Errorf("expected institution from connector, got %q", createdAccount.Institution)
	}
	if createdAccount.AccountType != "bank" {
		t.Errorf("expected lowercased account type, got %q", createdAccount.AccountType)
	}
	if createdAccount.Balance != 1000 {
		t.Errorf("expected balance 1000, got %v", createdAccount.Balance)
	}
	if createdTx.AccountID != 100 {
		t.Errorf("expected transaction on local account 100, got %d", createdTx.AccountID)
	}
	if createdTx.Type != transaction.TypeExpense || createdTx.Amount != -50 {
		t.Errorf("expected expense of -50, got %s %v", createdTx.Type, createdTx.Amount)
	}
	if createdTx.CategoryID != 11 {
		t.Errorf("expected expense bucket category, got %d", createdTx.CategoryID)
	}
	if createdTx.Origin != transaction.OriginOpenFinance || createdTx.ExternalID != "tx_1" {
		t.Errorf("unexpected origin/external id: %+v", createdTx)
	}
}

func TestSyncUserSecondPassIsIdempotent(t *testing.T) {
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			return []openfinance.Item{
				{ID: "item_1", Status: "UPDATED", Connector: openfinance.Connector{Name: "Banco Teste"}},
			}, nil
		},
		listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
			return []openfinance.Account{{ID: "acc_1", Name: "Conta Corrente", Type: "BANK", Balance: 1000}}, nil
		},
		listTransactionsFunc: func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
			return []openfinance.Transaction{{ID: "tx_1", Description: "Alterada", Amount: -99, Date: "2025-05-20"}}, nil
		},
	}

	balanceUpdates := 0
	accountRepo := &mockAccountRepo{
		findByExternalIDFunc: func(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
			return &account.Account{ID: 100, UserID: userID, ExternalID: externalID, Balance: 900}, nil
		},
		updateBalanceFunc: func(ctx context.Context, id int64, balance float64) error {
			balanceUpdates++
			if id != 100 || balance != 1000 {
				t.Errorf("unexpected balance update: id=%d balance=%v", id, balance)
			}
			return nil
		},
		createFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
			t.Error("account must not be created on re-sync")
			return nil, nil
		},
	}

	transactionRepo := &mockTransactionRepo{
		findByExternalIDFunc: func(ctx context.Context, externalID string) (*transaction.Transaction, error) {
			return &transaction.Transaction{ID: 200, ExternalID: externalID, Amount: -50}, nil
		},
		createFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			t.Error("transaction must not be re-created even when remote contents changed")
			return nil, nil
		},
	}

	service := NewSyncService(client, accountRepo, transactionRepo, &mockCategoryRepo{defaultIDFunc: defaultCategoryResolver})
	result, err := service.SyncUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountsSynced != 0 || result.TransactionsSynced != 0 {
		t.Errorf("expected nothing new on re-sync, got %+v", result)
	}
	if balanceUpdates != 1 {
		t.Errorf("expected exactly one balance rewrite, got %d", balanceUpdates)
	}
}

func TestSyncUserClassification(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		wantType   string
		wantBucket int64
	}{
		{"positive amount is income", 120.5, transaction.TypeIncome, 10},
		{"negative amount is expense", -42.9, transaction.TypeExpense, 11},
		{"zero amount is expense", 0, transaction.TypeExpense, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				configured: true,
				listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
					return []openfinance.Item{{ID: "item_1", Status: "UPDATED"}}, nil
				},
				listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
					return []openfinance.Account{{ID: "acc_1", Type: "BANK"}}, nil
				},
				listTransactionsFunc: func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
					return []openfinance.Transaction{{ID: "tx_1", Amount: tt.amount, Date: "2025-05-20"}}, nil
				},
			}

			accountRepo := &mockAccountRepo{
				findByExternalIDFunc: func(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
					return nil, nil
				},
				createFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
					return &account.Account{ID: 100}, nil
				},
			}

			var created transaction.CreateParams
			transactionRepo := &mockTransactionRepo{
				findByExternalIDFunc: func(ctx context.Context, externalID string) (*transaction.Transaction, error) {
					return nil, nil
				},
				createFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
					created = params
					return &transaction.Transaction{ID: 200}, nil
				},
			}

			service := NewSyncService(client, accountRepo, transactionRepo, &mockCategoryRepo{defaultIDFunc: defaultCategoryResolver})
			if _, err := service.SyncUser(context.Background(), 7); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, created.Type)
			}
			if created.CategoryID != tt.wantBucket {
				t.Errorf("expected category %d, got %d", tt.wantBucket, created.CategoryID)
			}
			if created.Description != importedDescription {
				t.Errorf("expected fallback description, got %q", created.Description)
			}
		})
	}
}

func TestSyncUserMissingCategorySkipsSilently(t *testing.T) {
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			return []openfinance.Item{{ID: "item_1", Status: "UPDATED"}}, nil
		},
		listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
			return []openfinance.Account{{ID: "acc_1", Type: "BANK"}}, nil
		},
		listTransactionsFunc: func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
			return []openfinance.Transaction{{ID: "tx_1", Amount: -10, Date: "2025-05-20"}}, nil
		},
	}

	accountRepo := &mockAccountRepo{
		findByExternalIDFunc: func(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
			return &account.Account{ID: 100}, nil
		},
	}

	transactionRepo := &mockTransactionRepo{
		findByExternalIDFunc: func(ctx context.Context, externalID string) (*transaction.Transaction, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			t.Error("transaction must not be created without a category")
			return nil, nil
		},
	}

	categoryRepo := &mockCategoryRepo{
		defaultIDFunc: func(ctx context.Context, name, categoryType string) (int64, error) {
			return 0, nil
		},
	}

	service := NewSyncService(client, accountRepo, transactionRepo, categoryRepo)
	result, err := service.SyncUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected silent skip, got error: %v", err)
	}
	if result.TransactionsSynced != 0 {
		t.Errorf("expected 0 transactions synced, got %d", result.TransactionsSynced)
	}
	if result.AccountsSynced != 1 {
		t.Errorf("account sync should still count, got %d", result.AccountsSynced)
	}
}

func TestSyncUserTransactionWindow(t *testing.T) {
	var gotFrom string
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			return []openfinance.Item{{ID: "item_1", Status: "UPDATED"}}, nil
		},
		listAccountsFunc: func(ctx context.Context, itemID string) ([]openfinance.Account, error) {
			return []openfinance.Account{{ID: "acc_1", Type: "BANK"}}, nil
		},
		listTransactionsFunc: func(ctx context.Context, accountID, from string) ([]openfinance.Transaction, error) {
			gotFrom = from
			return nil, nil
		},
	}

	accountRepo := &mockAccountRepo{
		findByExternalIDFunc: func(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
			return &account.Account{ID: 100}, nil
		},
	}

	service := NewSyncService(client, accountRepo, &mockTransactionRepo{}, &mockCategoryRepo{defaultIDFunc: defaultCategoryResolver})
	service.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}

	if _, err := service.SyncUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFrom != "2025-03-03" {
		t.Errorf("expected 90 day window from 2025-03-03, got %s", gotFrom)
	}
}

func TestSyncUserRemoteFailureAborts(t *testing.T) {
	client := &mockClient{
		configured: true,
		listItemsFunc: func(ctx context.Context, clientUserID string) ([]openfinance.Item, error) {
			return nil, &openfinance.APIError{StatusCode: 500, Body: "boom"}
		},
	}

	service := NewSyncService(client, &mockAccountRepo{}, &mockTransactionRepo{}, &mockCategoryRepo{})
	_, err := service.SyncUser(context.Background(), 7)

	var apiErr *openfinance.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError to propagate, got %v", err)
	}
}

func TestConnectToken(t *testing.T) {
	client := &mockClient{
		configured: true,
		createConnectTokenFunc: func(ctx context.Context, itemID, clientUserID string) (string, error) {
			if clientUserID != "7" || itemID != "item_1" {
				t.Errorf("unexpected identifiers: item=%s user=%s", itemID, clientUserID)
			}
			return "ct-1", nil
		},
	}

	service := NewConnectService(client)
	token, err := service.ConnectToken(context.Background(), 7, "item_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "ct-1" {
		t.Errorf("expected token ct-1, got %s", token)
	}
}

func TestConnectTokenNotConfigured(t *testing.T) {
	service := NewConnectService(&mockClient{configured: false})

	_, err := service.ConnectToken(context.Background(), 7, "")
	if !errors.Is(err, openfinance.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
