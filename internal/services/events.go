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

type EventInput struct {
	GameID      int64
	Description string
	Date        string
	Time        string
}

type EventService struct {
	storage          *storage.Storage
	log              *slog.Logger
	enforceOwnership bool
}

func NewEventService(s *storage.Storage, log *slog.Logger, enforceOwnership bool) *EventService {
	return &EventService{
		storage:          s,
		log:              log,
		enforceOwnership: enforceOwnership,
	}
}

// withAttendees selects events together with the size of their attendee set
// and preloads the game (with its type and owner) and the organizer.
func withAttendees(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Event{}).
		Select("events.*, COUNT(event_gamers.id) AS attendees_count").
		Joins("LEFT JOIN event_gamers ON event_gamers.event_id = events.id").
		Group("events.id").
		Preload("Game.GameType").
		Preload("Game.Gamer").
		Preload("Organizer")
}

// GetByID returns the event with attendees_count filled. When viewerUID is
// not empty and resolves to a gamer, Joined reports that gamer's attendance.
func (s *EventService) GetByID(ctx context.Context, id int64, viewerUID string) (*models.Event, error) {
	const op = "services.events.GetByID"

	db := s.storage.DB.WithContext(ctx)

	var e models.Event
	if err := withAttendees(db).Where("events.id = ?", id).Take(&e).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, lookupErr(err, "Event", "id="+strconv.FormatInt(id, 10)))
	}

	if viewerUID == "" {
		return &e, nil
	}

	var count int64
	err := db.Model(&models.EventGamer{}).
		Joins("JOIN gamers ON gamers.id = event_gamers.gamer_id").
		Where("gamers.uid = ? AND event_gamers.event_id = ?", viewerUID, id).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.Joined = count > 0

	return &e, nil
}

// List returns every event, or only the events of gameID when it is set,
// marking each one the viewer attends.
func (s *EventService) List(ctx context.Context, viewerUID string, gameID *int64) ([]models.Event, error) {
	const op = "services.events.List"

	db := s.storage.DB.WithContext(ctx)

	viewer, err := gamerByUID(db, viewerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := withAttendees(db)
	if gameID != nil {
		q = q.Where("events.game_id = ?", *gameID)
	}

	events := []models.Event{}
	if err := q.Order("events.id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var joinedIDs []int64
	if err := db.Model(&models.EventGamer{}).
		Where("gamer_id = ?", viewer.ID).
		Pluck("event_id", &joinedIDs).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	joined := make(map[int64]struct{}, len(joinedIDs))
	for _, id := range joinedIDs {
		joined[id] = struct{}{}
	}

	for i := range events {
		_, events[i].Joined = joined[events[i].ID]
	}

	return events, nil
}

func (s *EventService) Create(ctx context.Context, organizerUID string, in EventInput) (*models.Event, error) {
	const op = "services.events.Create"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	game, err := gameByID(tx, in.GameID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	organizer, err := gamerByUID(tx, organizerUID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e := models.Event{
		GameID:      game.ID,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		OrganizerID: organizer.ID,
	}

	if err := tx.Create(&e).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("event created",
		slog.Int64("event_id", e.ID),
		slog.Int64("game_id", game.ID),
		slog.String("organizer", organizer.UID))

	return s.GetByID(ctx, e.ID, "")
}

// Update overwrites every editable field and hands the event to the
// requester. With ownership enforcement on, only the current organizer may
// do so.
func (s *EventService) Update(ctx context.Context, id int64, requesterUID string, in EventInput) error {
	const op = "services.events.Update"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	existing, err := eventByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	game, err := gameByID(tx, in.GameID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	organizer, err := gamerByUID(tx, requesterUID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.enforceOwnership && existing.OrganizerID != organizer.ID {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := tx.Model(&models.Event{ID: existing.ID}).Updates(map[string]any{
		"description":  in.Description,
		"date":         in.Date,
		"time":         in.Time,
		"game_id":      game.ID,
		"organizer_id": organizer.ID,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete removes the event and its attendance rows.
func (s *EventService) Delete(ctx context.Context, id int64, requesterUID string) error {
	const op = "services.events.Delete"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	existing, err := eventByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.enforceOwnership {
		requester, err := gamerByUID(tx, requesterUID)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", op, err)
		}

		if existing.OrganizerID != requester.ID {
			tx.Rollback()
			return fmt.Errorf("%s: %w", op, ErrForbidden)
		}
	}

	if err := tx.Where("event_id = ?", existing.ID).Delete(&models.EventGamer{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Delete(&models.Event{}, existing.ID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Signup registers the gamer as an attendee. Signing up twice is reported as
// storage.ErrExists and leaves a single row.
func (s *EventService) Signup(ctx context.Context, id int64, gamerUID string) error {
	const op = "services.events.Signup"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	gamer, err := gamerByUID(tx, gamerUID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	e, err := eventByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	var existing []models.EventGamer
	if err := tx.Where("gamer_id = ? AND event_id = ?", gamer.ID, e.ID).
		Limit(1).
		Find(&existing).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(existing) > 0 {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.ErrExists)
	}

	if err := tx.Create(&models.EventGamer{GamerID: gamer.ID, EventID: e.ID}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, storage.Translate(err))
	}

	return nil
}

func (s *EventService) Leave(ctx context.Context, id int64, gamerUID string) error {
	const op = "services.events.Leave"

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer rollback(tx)

	gamer, err := gamerByUID(tx, gamerUID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	e, err := eventByID(tx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	var eg models.EventGamer
	if err := tx.Where("event_id = ? AND gamer_id = ?", e.ID, gamer.ID).First(&eg).Error; err != nil {
		tx.Rollback()
		key := fmt.Sprintf("event_id=%d gamer=%s", e.ID, gamer.UID)
		return fmt.Errorf("%s: %w", op, lookupErr(err, "EventGamer", key))
	}

	if err := tx.Delete(&eg).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func eventByID(db *gorm.DB, id int64) (*models.Event, error) {
	var e models.Event
	if err := db.First(&e, id).Error; err != nil {
		return nil, lookupErr(err, "Event", "id="+strconv.FormatInt(id, 10))
	}

	return &e, nil
}

func gameByID(db *gorm.DB, id int64) (*models.Game, error) {
	var g models.Game
	if err := db.First(&g, id).Error; err != nil {
		return nil, lookupErr(err, "Game", "id="+strconv.FormatInt(id, 10))
	}

	return &g, nil
}

func gamerByUID(db *gorm.DB, uid string) (*models.Gamer, error) {
	if uid == "" {
		return nil, &NotFoundError{Resource: "Gamer", Key: "uid=\"\""}
	}

	var g models.Gamer
	if err := db.Where("uid = ?", uid).First(&g).Error; err != nil {
		return nil, lookupErr(err, "Gamer", "uid="+uid)
	}

	return &g, nil
}
