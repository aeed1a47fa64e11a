package postgres

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/larkfield/lark-server/internal/domain"
)

// NewConnection opens a PostgreSQL connection via GORM.
func NewConnection(url string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL")
	return db, nil
}

// RunMigrations creates or updates the schema for the persisted aggregates.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Officer{},
		&domain.Statute{},
		&domain.Report{},
	)
}

// SeedStatutes inserts the given statutes if the table is empty, so a fresh
// deployment has a usable lookup set before any sync runs.
func SeedStatutes(db *gorm.DB, statutes []domain.Statute, log *zap.Logger) error {
	var count int64
	if err := db.Model(&domain.Statute{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&statutes).Error; err != nil {
		return fmt.Errorf("seed statutes: %w", err)
	}
	log.Info("seeded statutes", zap.Int("count", len(statutes)))
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
