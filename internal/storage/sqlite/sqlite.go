// Package sqlite opens a file or in-memory SQLite database behind the shared
// storage handle. It backs local development and the service tests.
package sqlite

import (
	"fmt"

	"levelup_api/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens path. ":memory:" databases are pinned to a single connection,
// otherwise every pooled connection would see its own empty database.
func New(path string) (*storage.Storage, error) {
	const op = "storage.sqlite.New"

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return storage.New(db), nil
}
