package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"levelup_api/internal/catalog"
	"levelup_api/internal/models"
	"levelup_api/internal/storage"

	"gorm.io/gorm"
)

type GameInput struct {
	Title           string
	Maker           string
	NumberOfPlayers int
	SkillLevel      int
	GameTypeID      int64
	URL             string
}

type CatalogFetcher interface {
	Fetch(ctx context.Context, url string) (*catalog.Entry, error)
}

type GameService struct {
	storage *storage.Storage
	log     *slog.Logger
	catalog CatalogFetcher
}

func NewGameService(s *storage.Storage, log *slog.Logger, c CatalogFetcher) *GameService {
	return &GameService{
		storage: s,
		log:     log,
		catalog: c,
	}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("GameType").Preload("Gamer")
}

func (s *GameService) List(ctx context.Context, gameTypeID *int64) ([]models.Game, error) {
	const op = "services.games.List"

	q := withRelations(s.storage.DB.WithContext(ctx))
	if gameTypeID != nil {
		q = q.Where("game_type_id = ?", *gameTypeID)
	}

	games := []models.Game{}
	if err := q.Order("id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	const op = "services.games.GetByID"

	var g models.Game

	rows := withRelations(s.storage.DB.WithContext(ctx)).First(&g, id)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, lookupErr(rows.Error, "Game", "id="+strconv.FormatInt(id, 10)))
	}

	return &g, nil
}

func (s *GameService) Create(ctx context.Context, gamerUID string, in GameInput) (*models.Game, error) {
	const op = "services.games.Create"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	gamer, err := gamerByUID(tx, gamerUID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gameType, err := gameTypeByID(tx, in.GameTypeID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := ensureNewTitle(tx, in.Title, 0); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g := models.Game{
		Title:           in.Title,
		Maker:           in.Maker,
		NumberOfPlayers: in.NumberOfPlayers,
		SkillLevel:      in.SkillLevel,
		URL:             in.URL,
		GameTypeID:      gameType.ID,
		GamerID:         gamer.ID,
	}

	if err := tx.Create(&g).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g.GameType = gameType
	g.Gamer = gamer

	return &g, nil
}

// Import fills title and maker from the store page at in.URL and creates the
// game like Create does.
func (s *GameService) Import(ctx context.Context, gamerUID string, in GameInput) (*models.Game, error) {
	const op = "services.games.Import"

	entry, err := s.catalog.Fetch(ctx, in.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("catalog entry fetched",
		slog.String("url", entry.URL),
		slog.String("title", entry.Title))

	in.Title = entry.Title
	in.Maker = entry.Maker
	in.URL = entry.URL

	g, err := s.Create(ctx, gamerUID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func (s *GameService) Update(ctx context.Context, id int64, in GameInput) error {
	const op = "services.games.Update"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	existing, err := gameByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	gameType, err := gameTypeByID(tx, in.GameTypeID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := ensureNewTitle(tx, in.Title, existing.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Model(&models.Game{ID: existing.ID}).Updates(map[string]any{
		"title":             in.Title,
		"maker":             in.Maker,
		"number_of_players": in.NumberOfPlayers,
		"skill_level":       in.SkillLevel,
		"game_type_id":      gameType.ID,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete refuses to remove a game that still has events.
func (s *GameService) Delete(ctx context.Context, id int64) error {
	const op = "services.games.Delete"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	existing, err := gameByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	var events int64
	if err := tx.Model(&models.Event{}).Where("game_id = ?", existing.ID).Count(&events).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if events > 0 {
		tx.Rollback()
		return fmt.Errorf("%s: %d events: %w", op, events, storage.ErrInUse)
	}

	if err := tx.Delete(&models.Game{}, existing.ID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ensureNewTitle fails with storage.ErrExists when another game than exceptID
// already uses title.
func ensureNewTitle(db *gorm.DB, title string, exceptID int64) error {
	var count int64
	if err := db.Model(&models.Game{}).
		Where("title = ? AND id <> ?", title, exceptID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("game %q: %w", title, storage.ErrExists)
	}

	return nil
}
