package http

import (
	"log"
	"net/http"

	"caixa/internal/domain/report"
	"caixa/internal/shared/middleware"
)

type ReportHandler struct {
	reportService *report.Service
}

func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// HandleDashboard returns the home screen aggregates.
func (h *ReportHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.reportService.Dashboard(r.Context(), userID)
	if err != nil {
		log.Printf("Error building dashboard for user %d: %v", userID, err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// HandleReport returns a 3, 6 or 12 month period report.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	period := r.URL.Query().Get("period")
	rep, err := h.reportService.Report(r.Context(), userID, period)
	if err != nil {
		log.Printf("Error building report for user %d: %v", userID, err)
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
