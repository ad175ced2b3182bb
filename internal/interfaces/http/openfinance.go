package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	domain "caixa/internal/domain/openfinance"
	ofclient "caixa/internal/infrastructure/openfinance"
	"caixa/internal/interfaces/worker"
	"caixa/internal/shared/middleware"
)

// webhookEventItemUpdated is the aggregator event that triggers a sync.
const webhookEventItemUpdated = "item/updated"

// JobSubmitter queues background jobs. Satisfied by worker.Pool.
type JobSubmitter interface {
	Submit(job worker.Job) error
}

type OpenFinanceHandler struct {
	syncService    *domain.SyncService
	connectService *domain.ConnectService
	pool           JobSubmitter
}

func NewOpenFinanceHandler(syncService *domain.SyncService, connectService *domain.ConnectService, pool JobSubmitter) *OpenFinanceHandler {
	return &OpenFinanceHandler{
		syncService:    syncService,
		connectService: connectService,
		pool:           pool,
	}
}

type ConnectRequest struct {
	ItemID string `json:"itemId"`
}

type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ItemID       string `json:"itemId"`
		ClientUserID string `json:"clientUserId"`
	} `json:"data"`
}

// HandleSync runs a bank sync for the authenticated user and reports how
// many accounts and transactions were imported.
func (h *OpenFinanceHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.syncService.SyncUser(r.Context(), userID)
	if errors.Is(err, ofclient.ErrNotConfigured) {
		writeMessage(w, http.StatusInternalServerError, "Open Finance credentials not configured")
		return
	}
	if err != nil {
		log.Printf("Error syncing user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Sync failed",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "Sync completed",
		"syncedAccounts":     result.AccountsSynced,
		"syncedTransactions": result.TransactionsSynced,
	})
}

// HandleConnect issues a widget connect token for the authenticated user.
func (h *OpenFinanceHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Body is optional; an item id switches the widget to update mode.
	var req ConnectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	token, err := h.connectService.ConnectToken(r.Context(), userID, req.ItemID)
	if errors.Is(err, ofclient.ErrNotConfigured) {
		writeMessage(w, http.StatusInternalServerError, "Open Finance credentials not configured")
		return
	}
	if err != nil {
		log.Printf("Error creating connect token for user %d: %v", userID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create connect token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"connectToken": token})
}

// HandleWebhook receives aggregator callbacks. An item/updated event queues
// a background sync for the affected user; every valid POST is acknowledged
// with 200 so the aggregator does not retry.
func (h *OpenFinanceHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Error decoding webhook payload: %v", err)
		writeMessage(w, http.StatusOK, "Webhook processed")
		return
	}

	log.Printf("Webhook received: event=%s item=%s", payload.Event, payload.Data.ItemID)

	if payload.Event == webhookEventItemUpdated && payload.Data.ClientUserID != "" {
		userID, err := strconv.ParseInt(payload.Data.ClientUserID, 10, 64)
		if err != nil {
			log.Printf("Webhook clientUserId %q is not a user id", payload.Data.ClientUserID)
		} else if err := h.pool.Submit(worker.NewSyncJob(h.syncService, userID)); err != nil {
			log.Printf("Failed to queue webhook sync for user %d: %v", userID, err)
		}
	}

	writeMessage(w, http.StatusOK, "Webhook processed")
}
