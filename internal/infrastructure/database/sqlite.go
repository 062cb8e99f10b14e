package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/sangkips/invoice-desk/internal/domain/repository"
	"github.com/sangkips/invoice-desk/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormWriter sends GORM's slow-query and error lines to the global zerolog logger
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	l := logger.WithComponent("gorm")
	l.Warn().Msgf(format, args...)
}

func newGormLogger() gormlogger.Interface {
	// a missing invoice is a 404, not a database fault
	return gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// NewSQLiteDB opens a named in-memory SQLite database. Nothing is written to
// disk; the data lives as long as the process keeps the connection open.
func NewSQLiteDB(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// One connection keeps the memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info().Str("database", name).Msg("Opened in-memory SQLite database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Invoice{},
		&entity.InvoiceSequence{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}

// SeedDefaultData stores the demo invoice when the store is empty
func SeedDefaultData(ctx context.Context, repo repository.InvoiceRepository) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		log.Info().Int64("invoices", total).Msg("Store already populated, skipping seed")
		return nil
	}

	demo := &entity.Invoice{
		CompCode:  "ACME",
		Amount:    100,
		CardLast4: entity.DefaultCardLast4,
	}
	if err := repo.Create(ctx, demo); err != nil {
		return fmt.Errorf("failed to seed demo invoice: %w", err)
	}

	log.Info().Int64("invoice_id", demo.ID).Msg("Seeded demo invoice")
	return nil
}
