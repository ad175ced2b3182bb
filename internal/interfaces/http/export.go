package http

import (
	"encoding/csv"
	"log"
	"math"
	"net/http"
	"strconv"

	"caixa/internal/domain/transaction"
	"caixa/internal/shared/middleware"
)

const exportLimit = 1000

// HandleExportTransactions streams the user's transactions as a CSV download
// with Portuguese headers and a UTF-8 BOM so spreadsheet apps open it cleanly.
func (h *TransactionHandler) HandleExportTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := h.transactionRepo.ListByUserID(r.Context(), userID, exportLimit)
	if err != nil {
		log.Printf("Error exporting transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to export transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=transacoes.csv")
	w.WriteHeader(http.StatusOK)

	// BOM so Excel detects UTF-8
	w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.Write([]string{"Data", "Descrição", "Categoria", "Conta", "Tipo", "Valor", "Origem"})

	for _, t := range transactions {
		amount := t.Amount
		label := "Despesa"
		if t.Type == transaction.TypeIncome {
			label = "Receita"
		} else {
			amount = -math.Abs(amount)
		}

		origin := "Manual"
		if t.Origin == transaction.OriginOpenFinance {
			origin = "Automática"
		}

		cw.Write([]string{
			t.Date.Format("02/01/2006"),
			t.Description,
			t.CategoryName,
			t.AccountName,
			label,
			strconv.FormatFloat(amount, 'f', 2, 64),
			origin,
		})
	}
	cw.Flush()
}
