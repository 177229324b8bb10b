// Package main is the entry point for the Ledgerline API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/account"
	"github.com/ledgerline/backend/internal/application/usecase/analytics"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/application/usecase/category"
	"github.com/ledgerline/backend/internal/application/usecase/ingest"
	"github.com/ledgerline/backend/internal/application/usecase/rule"
	"github.com/ledgerline/backend/internal/application/usecase/transaction"
	"github.com/ledgerline/backend/internal/infra/db"
	"github.com/ledgerline/backend/internal/infra/server/router"
	"github.com/ledgerline/backend/internal/integration/adapters"
	"github.com/ledgerline/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
	"github.com/ledgerline/backend/internal/integration/persistence"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting Ledgerline API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	if err := database.SeedDefaultCategories(); err != nil {
		slog.Error("Failed to seed default categories", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Repositories
	accountRepo := persistence.NewAccountRepository(database.DB())
	categoryRepo := persistence.NewCategoryRepository(database.DB())
	txRepo := persistence.NewTransactionRepository(database.DB())
	ruleRepo := persistence.NewRuleRepository(database.DB())
	dismissedRepo := persistence.NewDismissedSuggestionRepository(database.DB())
	importRepo := persistence.NewImportRepository(database.DB())

	// LLM classifier. A missing provider key disables classification
	// and document parsing; rules keep working.
	var llm adapter.LLMService
	llmEnabled := cfg.LLM.CategorizationEnabled
	llm, err = adapters.NewLLMServiceFromConfig(cfg)
	if err != nil {
		slog.Warn("LLM provider not configured, running rules-only", "error", err)
		llm = nil
		llmEnabled = false
	}

	orchestrator := categorize.NewOrchestrator(ruleRepo, categoryRepo, txRepo, llm, llmEnabled)
	suggestions := rule.NewSuggestionEngine(ruleRepo, dismissedRepo, categoryRepo)

	// Use cases
	accountUseCase := account.NewUseCase(accountRepo)
	categoryUseCase := category.NewUseCase(categoryRepo)

	listTxUseCase := transaction.NewListUseCase(txRepo)
	getTxUseCase := transaction.NewGetUseCase(txRepo)
	updateTxUseCase := transaction.NewUpdateUseCase(txRepo, categoryRepo, suggestions)
	splitUseCase := transaction.NewSplitUseCase(txRepo, categoryRepo)
	unsplitUseCase := transaction.NewUnsplitUseCase(txRepo)
	getSplitsUseCase := transaction.NewGetSplitsUseCase(txRepo)

	createRuleUseCase := rule.NewCreateUseCase(ruleRepo, categoryRepo)
	listRuleUseCase := rule.NewListUseCase(ruleRepo)
	getRuleUseCase := rule.NewGetUseCase(ruleRepo)
	updateRuleUseCase := rule.NewUpdateUseCase(ruleRepo, categoryRepo)
	deleteRuleUseCase := rule.NewDeleteUseCase(ruleRepo)
	reorderRuleUseCase := rule.NewReorderUseCase(ruleRepo)
	acceptSuggestionUseCase := rule.NewAcceptSuggestionUseCase(createRuleUseCase)
	dismissSuggestionUseCase := rule.NewDismissSuggestionUseCase(dismissedRepo)

	uploadUseCase := ingest.NewUploadUseCase(accountRepo, importRepo, txRepo, llm, orchestrator, llmEnabled)
	listImportsUseCase := ingest.NewListImportsUseCase(importRepo)
	getImportUseCase := ingest.NewGetImportUseCase(importRepo)

	overviewUseCase := analytics.NewOverviewUseCase(txRepo)
	trendUseCase := analytics.NewTrendUseCase(txRepo)
	categoryRangeUseCase := analytics.NewCategoryRangeUseCase(txRepo)
	accountSummaryUseCase := analytics.NewAccountSummaryUseCase(txRepo)

	// Controllers and middleware
	healthController := controller.NewHealthController(database.HealthCheck)
	accountController := controller.NewAccountController(accountUseCase)
	categoryController := controller.NewCategoryController(categoryUseCase)
	transactionController := controller.NewTransactionController(
		listTxUseCase, getTxUseCase, updateTxUseCase,
		splitUseCase, unsplitUseCase, getSplitsUseCase,
		orchestrator,
	)
	ruleController := controller.NewRuleController(
		listRuleUseCase, getRuleUseCase, createRuleUseCase, updateRuleUseCase,
		deleteRuleUseCase, reorderRuleUseCase,
		acceptSuggestionUseCase, dismissSuggestionUseCase,
	)
	importController := controller.NewImportController(uploadUseCase, listImportsUseCase, getImportUseCase)
	analyticsController := controller.NewAnalyticsController(
		overviewUseCase, trendUseCase, categoryRangeUseCase, accountSummaryUseCase,
	)

	uploadRateLimiter := middleware.NewRateLimiter()
	authMiddleware := middleware.NewAuthMiddleware(&cfg.Auth)

	r := router.NewRouter(
		healthController,
		accountController,
		categoryController,
		transactionController,
		ruleController,
		importController,
		analyticsController,
		uploadRateLimiter,
		authMiddleware,
		cfg.Server.CORSAllowedOrigin,
	)
	engine := r.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
