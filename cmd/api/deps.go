package main

import (
	"context"
	"log"
	"time"

	domain "caixa/internal/domain/openfinance"
	"caixa/internal/domain/report"
	ofclient "caixa/internal/infrastructure/openfinance"
	"caixa/internal/infrastructure/postgres"
	httphandlers "caixa/internal/interfaces/http"
	"caixa/internal/interfaces/worker"
	"caixa/internal/shared/auth"
	"caixa/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	CategoryHandler    *httphandlers.CategoryHandler
	ReportHandler      *httphandlers.ReportHandler
	OpenFinanceHandler *httphandlers.OpenFinanceHandler

	// Auth
	JWT *auth.JWT

	// Background workers
	Pool *worker.Pool
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	// Seed default categories on first start
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := categoryRepo.EnsureDefaults(seedCtx); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize Open Finance client and services
	client := ofclient.NewClient(
		cfg.OpenFinance.APIURL,
		cfg.OpenFinance.ClientID,
		cfg.OpenFinance.ClientSecret,
		cfg.OpenFinance.AppURL,
	)
	if !client.Configured() {
		log.Println("Open Finance credentials not configured; bank sync disabled")
	}
	syncService := domain.NewSyncService(client, accountRepo, transactionRepo, categoryRepo)
	connectService := domain.NewConnectService(client)
	reportService := report.NewService(accountRepo, transactionRepo)

	// Worker pool for webhook-triggered syncs
	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize)
	pool.Start()

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(userRepo, jwt),
		AccountHandler:     httphandlers.NewAccountHandler(accountRepo),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionRepo, accountRepo),
		CategoryHandler:    httphandlers.NewCategoryHandler(categoryRepo),
		ReportHandler:      httphandlers.NewReportHandler(reportService),
		OpenFinanceHandler: httphandlers.NewOpenFinanceHandler(syncService, connectService, pool),
		JWT:                jwt,
		Pool:               pool,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
