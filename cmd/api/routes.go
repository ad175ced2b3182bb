package main

import (
	"net/http"

	httphandlers "caixa/internal/interfaces/http"
	"caixa/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Aggregator webhook; unauthenticated, events only queue a sync that
	// re-reads everything from the aggregator
	mux.HandleFunc("/api/openfinance/webhook", deps.OpenFinanceHandler.HandleWebhook)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleMe)))
	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccounts)))
	mux.Handle("/api/accounts/", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountByID)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/export", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleExportTransactions)))
	mux.Handle("/api/categories", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleListCategories)))
	mux.Handle("/api/dashboard", authMiddleware(http.HandlerFunc(deps.ReportHandler.HandleDashboard)))
	mux.Handle("/api/reports", authMiddleware(http.HandlerFunc(deps.ReportHandler.HandleReport)))
	mux.Handle("/api/sync", authMiddleware(http.HandlerFunc(deps.OpenFinanceHandler.HandleSync)))
	mux.Handle("/api/openfinance/connect", authMiddleware(http.HandlerFunc(deps.OpenFinanceHandler.HandleConnect)))

	// Apply global middleware
	return middleware.RequestID(middleware.Logging(middleware.Telemetry(middleware.CORS(mux))))
}
