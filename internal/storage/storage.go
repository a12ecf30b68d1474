package storage

import (
	"errors"
	"fmt"

	"levelup_api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
	ErrInUse    = errors.New("still referenced")
)

// Storage is the gorm handle shared by every service, whatever the driver.
type Storage struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{DB: db}
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *Storage) Ping() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

func (s *Storage) Migrate() error {
	const op = "storage.Migrate"

	if err := s.DB.AutoMigrate(
		&models.GameType{},
		&models.Gamer{},
		&models.Game{},
		&models.Event{},
		&models.EventGamer{},
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var count int64
	if err := s.DB.Model(&models.GameType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if count == 0 {
		seed := make([]models.GameType, len(models.DefaultGameTypes))
		copy(seed, models.DefaultGameTypes)
		if err := s.DB.Create(&seed).Error; err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// Translate maps gorm errors onto the storage sentinels so callers never
// import gorm to classify a failure.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrExists, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrInUse, err)
	}

	return err
}
