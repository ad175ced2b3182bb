package http

import (
	"log"
	"net/http"

	"caixa/internal/domain/category"
	"caixa/internal/shared/middleware"
)

type CategoryHandler struct {
	categoryRepo category.Repository
}

func NewCategoryHandler(categoryRepo category.Repository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// HandleListCategories returns default categories plus the user's own.
func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categories, err := h.categoryRepo.ListForUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing categories for user %d: %v", userID, err)
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}
