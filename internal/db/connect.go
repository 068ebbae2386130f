// Package db opens and migrates the in-memory Boardyard database.
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a fresh in-memory sqlite database. All state lives for the
// process lifetime only; nothing is written to disk.
func Open() (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open in-memory store: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own database.
	// Pin the pool to a single connection so all sessions share one store.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}
