package http

import (
	"context"

	"caixa/internal/domain/account"
	"caixa/internal/domain/category"
	"caixa/internal/domain/transaction"
	"caixa/internal/domain/user"
	ofclient "caixa/internal/infrastructure/openfinance"
	"caixa/internal/interfaces/worker"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc       func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc   func(ctx context.Context, email string) (*user.User, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status string) error
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	CreateFunc           func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*account.Account, error)
	ListByUserIDFunc     func(ctx context.Context, userID int64) ([]*account.Account, error)
	FindByExternalIDFunc func(ctx context.Context, userID int64, externalID string) (*account.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, id int64, balance float64) error
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) FindByExternalID(ctx context.Context, userID int64, externalID string) (*account.Account, error) {
	if m.FindByExternalIDFunc != nil {
		return m.FindByExternalIDFunc(ctx, userID, externalID)
	}
	return nil, nil
}

func (m *MockAccountRepo) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, id, balance)
	}
	return nil
}

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc           func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*transaction.Transaction, error)
	ListByUserIDFunc     func(ctx context.Context, userID int64, limit int) ([]*transaction.Transaction, error)
	ListByAccountIDFunc  func(ctx context.Context, accountID int64, limit int) ([]*transaction.Transaction, error)
	FindByExternalIDFunc func(ctx context.Context, externalID string) (*transaction.Transaction, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*transaction.Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*transaction.Transaction, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *MockTransactionRepo) FindByExternalID(ctx context.Context, externalID string) (*transaction.Transaction, error) {
	if m.FindByExternalIDFunc != nil {
		return m.FindByExternalIDFunc(ctx, externalID)
	}
	return nil, nil
}

// MockCategoryRepo implements category.Repository for testing
type MockCategoryRepo struct {
	DefaultIDByNameAndTypeFunc func(ctx context.Context, name, categoryType string) (int64, error)
	ListForUserFunc            func(ctx context.Context, userID int64) ([]*category.Category, error)
	EnsureDefaultsFunc         func(ctx context.Context) error
}

func (m *MockCategoryRepo) DefaultIDByNameAndType(ctx context.Context, name, categoryType string) (int64, error) {
	if m.DefaultIDByNameAndTypeFunc != nil {
		return m.DefaultIDByNameAndTypeFunc(ctx, name, categoryType)
	}
	return 0, nil
}

func (m *MockCategoryRepo) ListForUser(ctx context.Context, userID int64) ([]*category.Category, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCategoryRepo) EnsureDefaults(ctx context.Context) error {
	if m.EnsureDefaultsFunc != nil {
		return m.EnsureDefaultsFunc(ctx)
	}
	return nil
}

// MockAggregatorClient implements the aggregator client interface for testing
type MockAggregatorClient struct {
	ConfiguredValue        bool
	ListItemsFunc          func(ctx context.Context, clientUserID string) ([]ofclient.Item, error)
	ListAccountsFunc       func(ctx context.Context, itemID string) ([]ofclient.Account, error)
	ListTransactionsFunc   func(ctx context.Context, accountID, from string) ([]ofclient.Transaction, error)
	CreateConnectTokenFunc func(ctx context.Context, itemID, clientUserID string) (string, error)
}

func (m *MockAggregatorClient) Configured() bool { return m.ConfiguredValue }

func (m *MockAggregatorClient) ListItems(ctx context.Context, clientUserID string) ([]ofclient.Item, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, clientUserID)
	}
	return nil, nil
}

func (m *MockAggregatorClient) ListAccounts(ctx context.Context, itemID string) ([]ofclient.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, itemID)
	}
	return nil, nil
}

func (m *MockAggregatorClient) ListTransactions(ctx context.Context, accountID, from string) ([]ofclient.Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, accountID, from)
	}
	return nil, nil
}

func (m *MockAggregatorClient) CreateConnectToken(ctx context.Context, itemID, clientUserID string) (string, error) {
	if m.CreateConnectTokenFunc != nil {
		return m.CreateConnectTokenFunc(ctx, itemID, clientUserID)
	}
	return "", nil
}

// MockPool records submitted jobs
type MockPool struct {
	SubmitFunc func(job worker.Job) error
	Submitted  []worker.Job
}

func (m *MockPool) Submit(job worker.Job) error {
	m.Submitted = append(m.Submitted, job)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(job)
	}
	return nil
}
