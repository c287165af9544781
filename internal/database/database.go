package database

import (
	"fmt"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the sqlite trade store and migrates the schema. Trade records are
// append-only; existing rows are never touched by migration.
func New(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Trade{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}
