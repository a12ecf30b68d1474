package mariadb

import (
	"fmt"

	"levelup_api/internal/config"
	"levelup_api/internal/storage"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(cfg config.Database) (*storage.Storage, error) {
	const op = "storage.mariadb.New"

	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := storage.New(db)
	if err := s.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}
