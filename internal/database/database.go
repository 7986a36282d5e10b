package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// Connect opens the relational store selected by driver.
func Connect(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return ConnectPostgres(dsn)
	case "sqlite":
		return ConnectSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gormConfig turns driver unique violations into gorm.ErrDuplicatedKey and
// stamps rows in UTC.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database pool unavailable: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
