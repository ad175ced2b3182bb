package openfinance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"caixa/internal/domain/account"
	"caixa/internal/domain/category"
	"caixa/internal/domain/transaction"
	"caixa/internal/infrastructure/openfinance"
)

// transactionWindow is how far back transactions are pulled on each sync.
const transactionWindow = 90 * 24 * time.Hour

// importedDescription is used when the aggregator sends a transaction
// without a description.
const importedDescription = "Transação importada"

// SyncResult summarizes one sync pass for a user.
type SyncResult struct {
	ItemsFound         int `json:"itemsFound"`
	AccountsSynced     int `json:"syncedAccounts"`
	TransactionsSynced int `json:"syncedTransactions"`
}

// SyncService reconciles a user's aggregator connections into local
// accounts and transactions. Re-running a sync is idempotent: accounts get
// their balance refreshed, transactions already imported are left alone.
type SyncService struct {
	client          openfinance.ClientInterface
	accountRepo     account.Repository
	transactionRepo transaction.Repository
	categoryRepo    category.Repository
	now             func() time.Time
}

// NewSyncService creates a new sync service.
func NewSyncService(
	client openfinance.ClientInterface,
	accountRepo account.Repository,
	transactionRepo transaction.Repository,
	categoryRepo category.Repository,
) *SyncService {
	return &SyncService{
		client:          client,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// SyncUser pulls every UPDATED item of the given user and reconciles its
// accounts and transactions. Remote failures abort the pass; a missing
// default category only skips the affected transaction.
func (s *SyncService) SyncUser(ctx context.Context, userID int64) (*SyncResult, error) {
	if !s.client.Configured() {
		return nil, openfinance.ErrNotConfigured
	}

	clientUserID := strconv.FormatInt(userID, 10)
	items, err := s.client.ListItems(ctx, clientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for user %d: %w", userID, err)
	}

	result := &SyncResult{ItemsFound: len(items)}
	from := s.now().Add(-transactionWindow).Format("2006-01-02")

	for _, item := range items {
		if item.Status != openfinance.StatusUpdated {
			log.Printf("Sync: skipping item %s for user %d (status %s)", item.ID, userID, item.Status)
			continue
		}

		if err := s.syncItem(ctx, userID, item, from, result); err != nil {
			return nil, err
		}
	}

	log.Printf("Sync: user %d done, %d accounts and %d transactions imported",
		userID, result.AccountsSynced, result.TransactionsSynced)
	return result, nil
}

func (s *SyncService) syncItem(ctx context.Context, userID int64, item openfinance.Item, from string, result *SyncResult) error {
	accounts, err := s.client.ListAccounts(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("failed to list accounts for item %s: %w", item.ID, err)
	}

	for _, remote := range accounts {
		accountID, created, err := s.reconcileAccount(ctx, userID, item, remote)
		if err != nil {
			return err
		}
		if created {
			result.AccountsSynced++
		}

		imported, err := s.reconcileTransactions(ctx, accountID, remote.ID, from)
		if err != nil {
			return err
		}
		result.TransactionsSynced += imported
	}
	return nil
}

// reconcileAccount matches a remote account to a local one by external id.
// A new account is created with the institution taken from the item's
// connector; an existing one only gets its balance rewritten.
func (s *SyncService) reconcileAccount(ctx context.Context, userID int64, item openfinance.Item, remote openfinance.Account) (int64, bool, error) {
	existing, err := s.accountRepo.FindByExternalID(ctx, userID, remote.ID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up account %s: %w", remote.ID, err)
	}

	if existing != nil {
		if err := s.accountRepo.UpdateBalance(ctx, existing.ID, remote.Balance); err != nil {
			return 0, false, fmt.Errorf("failed to update balance for account %d: %w", existing.ID, err)
		}
		return existing.ID, false, nil
	}

	acc, err := s.accountRepo.Create(ctx, account.CreateParams{
		UserID:      userID,
		Name:        remote.Name,
		AccountType: strings.ToLower(remote.Type),
		Balance:     remote.Balance,
		Institution: item.Connector.Name,
		ExternalID:  remote.ID,
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to create account %s: %w", remote.ID, err)
	}
	return acc.ID, true, nil
}

// reconcileTransactions imports remote transactions not seen before. The
// remote id is the dedup key; anything already present is skipped without
// comparing contents.
func (s *SyncService) reconcileTransactions(ctx context.Context, accountID int64, remoteAccountID, from string) (int, error) {
	remoteTxs, err := s.client.ListTransactions(ctx, remoteAccountID, from)
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions for account %s: %w", remoteAccountID, err)
	}

	imported := 0
	for _, remote := range remoteTxs {
		existing, err := s.transactionRepo.FindByExternalID(ctx, remote.ID)
		if err != nil {
			return imported, fmt.Errorf("failed to look up transaction %s: %w", remote.ID, err)
		}
		if existing != nil {
			continue
		}

		txType := transaction.TypeExpense
		bucket := category.FallbackExpenseName
		if remote.Amount > 0 {
			txType = transaction.TypeIncome
			bucket = category.FallbackIncomeName
		}

		categoryID, err := s.categoryRepo.DefaultIDByNameAndType(ctx, bucket, txType)
		if err != nil {
			return imported, fmt.Errorf("failed to resolve category %q: %w", bucket, err)
		}
		if categoryID == 0 {
			// No default bucket seeded; drop the transaction rather than
			// fail the whole pass.
			log.Printf("Sync: no default category %q, skipping transaction %s", bucket, remote.ID)
			continue
		}

		date, err := parseRemoteDate(remote.Date)
		if err != nil {
			return imported, fmt.Errorf("failed to parse date of transaction %s: %w", remote.ID, err)
		}

		description := remote.Description
		if description == "" {
			description = importedDescription
		}

		_, err = s.transactionRepo.Create(ctx, transaction.CreateParams{
			AccountID:   accountID,
			CategoryID:  categoryID,
			Type:        txType,
			Description: description,
			Amount:      remote.Amount,
			Date:        date,
			Origin:      transaction.OriginOpenFinance,
			ExternalID:  remote.ID,
		})
		if err != nil {
			return imported, fmt.Errorf("failed to create transaction %s: %w", remote.ID, err)
		}
		imported++
	}
	return imported, nil
}

// parseRemoteDate accepts the two shapes the aggregator emits: a plain day
// or a full RFC 3339 timestamp.
func parseRemoteDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
