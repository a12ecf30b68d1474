package services

import (
	"context"
	"fmt"
	"log/slog"

	"levelup_api/internal/models"
	"levelup_api/internal/storage"
)

type GamerService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewGamerService(s *storage.Storage, log *slog.Logger) *GamerService {
	return &GamerService{
		storage: s,
		log:     log,
	}
}

func (s *GamerService) GetByUID(ctx context.Context, uid string) (*models.Gamer, error) {
	const op = "services.gamers.GetByUID"

	g, err := gamerByUID(s.storage.DB.WithContext(ctx), uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

// Register creates the gamer profile for uid. A uid is registered once.
func (s *GamerService) Register(ctx context.Context, uid, bio string) (*models.Gamer, error) {
	const op = "services.gamers.Register"

	db := s.storage.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Gamer{}).Where("uid = ?", uid).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if count > 0 {
		return nil, fmt.Errorf("%s: gamer %q: %w", op, uid, storage.ErrExists)
	}

	g := models.Gamer{UID: uid, Bio: bio}
	if err := db.Create(&g).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	s.log.Info("gamer registered", slog.String("uid", uid))

	return &g, nil
}
