package http

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"caixa/internal/domain/account"
	"caixa/internal/domain/transaction"
	"caixa/internal/shared/middleware"
)

const defaultTransactionLimit = 100

type TransactionHandler struct {
	transactionRepo transaction.Repository
	accountRepo     account.Repository
}

func NewTransactionHandler(transactionRepo transaction.Repository, accountRepo account.Repository) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

type CreateTransactionRequest struct {
	AccountID   int64   `json:"accountId"`
	CategoryID  int64   `json:"categoryId"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// HandleTransactions serves GET (list) and POST (create) on /api/transactions.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultTransactionLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var transactions []*transaction.Transaction
	var err error

	if accountIDStr := r.URL.Query().Get("accountId"); accountIDStr != "" {
		accountID, parseErr := strconv.ParseInt(accountIDStr, 10, 64)
		if parseErr != nil {
			http.Error(w, "Invalid account ID", http.StatusBadRequest)
			return
		}

		// Verify account ownership
		acc, accErr := h.accountRepo.GetByID(r.Context(), accountID)
		if errors.Is(accErr, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		if accErr != nil {
			log.Printf("Error getting account %d for transaction list: %v", accountID, accErr)
			http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
			return
		}
		if acc.UserID != userID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		transactions, err = h.transactionRepo.ListByAccountID(r.Context(), accountID, limit)
	} else {
		transactions, err = h.transactionRepo.ListByUserID(r.Context(), userID, limit)
	}

	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []*transaction.Transaction{}
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Verify account ownership
	acc, err := h.accountRepo.GetByID(r.Context(), req.AccountID)
	if errors.Is(err, account.ErrAccountNotFound) {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting account %d for transaction creation: %v", req.AccountID, err)
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	if acc.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Invalid date format (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	// Expenses are stored negative, incomes positive, whatever sign the
	// client sent.
	amount := math.Abs(req.Amount)
	if req.Type == transaction.TypeExpense {
		amount = -amount
	}

	params := transaction.CreateParams{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      amount,
		Date:        date,
		Origin:      transaction.OriginManual,
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.transactionRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating transaction for account %d: %v", req.AccountID, err)
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}
