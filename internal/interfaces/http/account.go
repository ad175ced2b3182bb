package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"caixa/internal/domain/account"
	"caixa/internal/shared/middleware"
)

type AccountHandler struct {
	accountRepo account.Repository
}

func NewAccountHandler(accountRepo account.Repository) *AccountHandler {
	return &AccountHandler{accountRepo: accountRepo}
}

type CreateAccountRequest struct {
	Name        string  `json:"accountName"`
	AccountType string  `json:"accountType"`
	Balance     float64 `json:"accountBalance"`
	Institution string  `json:"institution"`
}

// HandleAccounts serves GET (list) and POST (create) on /api/accounts.
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accountRepo.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []*account.Account{}
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := account.CreateParams{
		UserID:      userID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Balance:     req.Balance,
		Institution: req.Institution,
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acc, err := h.accountRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating account for user %d: %v", userID, err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, acc)
}

// HandleAccountByID serves GET on /api/accounts/{id}.
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	acc, err := h.accountRepo.GetByID(r.Context(), id)
	if errors.Is(err, account.ErrAccountNotFound) {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting account %d: %v", id, err)
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return
	}

	if acc.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, acc)
}
