package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"levelup_api/internal/models"
	"levelup_api/internal/storage"

	"gorm.io/gorm"
)

type GameTypeService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewGameTypeService(s *storage.Storage, log *slog.Logger) *GameTypeService {
	return &GameTypeService{
		storage: s,
		log:     log,
	}
}

func (s *GameTypeService) List(ctx context.Context) ([]models.GameType, error) {
	const op = "services.game_types.List"

	types := []models.GameType{}
	if err := s.storage.DB.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return types, nil
}

func (s *GameTypeService) GetByID(ctx context.Context, id int64) (*models.GameType, error) {
	const op = "services.game_types.GetByID"

	gt, err := gameTypeByID(s.storage.DB.WithContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return gt, nil
}

func gameTypeByID(db *gorm.DB, id int64) (*models.GameType, error) {
	var gt models.GameType
	if err := db.First(&gt, id).Error; err != nil {
		return nil, lookupErr(err, "GameType", "id="+strconv.FormatInt(id, 10))
	}

	return &gt, nil
}
