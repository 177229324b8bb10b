// Package db provides database connection and management functionality.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// Database wraps the GORM database connection.
type Database struct {
	db  *gorm.DB
	cfg *config.DatabaseConfig
}

// NewPostgresConnection creates a new PostgreSQL database connection.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &Database{
		db:  db,
		cfg: cfg,
	}, nil
}

// DB returns the underlying GORM database instance.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// HealthCheck performs a health check on the database connection.
func (d *Database) HealthCheck() bool {
	sqlDB, err := d.db.DB()
	if err != nil {
		slog.Error("Failed to get sql.DB for health check", "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		return false
	}

	return true
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	slog.Info("Database connection closed")
	return nil
}

// AutoMigrate runs GORM auto-migration for every persisted model.
func (d *Database) AutoMigrate() error {
	if err := d.db.AutoMigrate(
		&model.AccountModel{},
		&model.CategoryModel{},
		&model.TransactionModel{},
		&model.RuleModel{},
		&model.DismissedSuggestionModel{},
		&model.ImportModel{},
	); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// defaultCategorySeed is one built-in category. Defaults have no owner
// and are read-only for every user.
type defaultCategorySeed struct {
	name  string
	icon  string
	color string
}

var defaultCategories = []defaultCategorySeed{
	{"Groceries", "shopping-cart", "#22C55E"},
	{"Dining", "utensils", "#F97316"},
	{"Transport", "car", "#3B82F6"},
	{"Housing", "home", "#8B5CF6"},
	{"Utilities", "zap", "#EAB308"},
	{"Entertainment", "film", "#EC4899"},
	{"Health", "heart-pulse", "#EF4444"},
	{"Travel", "plane", "#06B6D4"},
	{"Shopping", "shopping-bag", "#A855F7"},
	{"Subscriptions", "repeat", "#14B8A6"},
	{"Fees", "receipt", "#64748B"},
	{"Income", "trending-up", "#10B981"},
}

// SeedDefaultCategories inserts the built-in categories that do not
// exist yet. Matching is by name so repeated startups are idempotent
// and ids stay stable after the first run.
func (d *Database) SeedDefaultCategories() error {
	var existing []model.CategoryModel
	if err := d.db.Where("is_default = ?", true).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load default categories: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}

	now := time.Now().UTC()
	created := 0
	for i, seed := range defaultCategories {
		if present[seed.name] {
			continue
		}

		category := &entity.Category{
			ID:        uuid.NewString(),
			Name:      seed.name,
			Icon:      seed.icon,
			Color:     seed.color,
			IsDefault: true,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := d.db.Create(model.CategoryFromEntity(category)).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", seed.name, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("Seeded default categories", "created", created)
	}
	return nil
}
