package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"levelup_api/internal/models"
	"levelup_api/internal/services"
)

type GameServicer interface {
	List(ctx context.Context, gameTypeID *int64) ([]models.Game, error)
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, gamerUID string, in services.GameInput) (*models.Game, error)
	Import(ctx context.Context, gamerUID string, in services.GameInput) (*models.Game, error)
	Update(ctx context.Context, id int64, in services.GameInput) error
	Delete(ctx context.Context, id int64) error
}

type GameRequest struct {
	Title           string `json:"title" validate:"required,max=100"`
	Maker           string `json:"maker" validate:"max=100"`
	NumberOfPlayers int    `json:"number_of_players" validate:"gte=1"`
	SkillLevel      int    `json:"skill_level" validate:"gte=1,lte=5"`
	GameType        int64  `json:"game_type" validate:"required,gt=0"`
}

type ImportGameRequest struct {
	URL             string `json:"url" validate:"required,url"`
	NumberOfPlayers int    `json:"number_of_players" validate:"gte=1"`
	SkillLevel      int    `json:"skill_level" validate:"gte=1,lte=5"`
	GameType        int64  `json:"game_type" validate:"required,gt=0"`
}

type GameController struct {
	service GameServicer
	log     *slog.Logger
}

func NewGameController(s GameServicer, log *slog.Logger) *GameController {
	return &GameController{
		service: s,
		log:     log,
	}
}

func (c *GameController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.List"

	var gameTypeID *int64
	if raw := r.URL.Query().Get("type"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeBadRequest(w, c.log, op, ErrInvalidID)
			return
		}
		gameTypeID = &id
	}

	games, err := c.service.List(r.Context(), gameTypeID)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, games)
}

func (c *GameController) Retrieve(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Retrieve"

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	game, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, game)
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	var req GameRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	game, err := c.service.Create(r.Context(), uid, services.GameInput{
		Title:           req.Title,
		Maker:           req.Maker,
		NumberOfPlayers: req.NumberOfPlayers,
		SkillLevel:      req.SkillLevel,
		GameTypeID:      req.GameType,
	})
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, game)
}

// Import creates a game from a store page URL.
func (c *GameController) Import(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Import"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	var req ImportGameRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	game, err := c.service.Import(r.Context(), uid, services.GameInput{
		URL:             req.URL,
		NumberOfPlayers: req.NumberOfPlayers,
		SkillLevel:      req.SkillLevel,
		GameTypeID:      req.GameType,
	})
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	c.log.Info("game imported", slog.Int64("game_id", game.ID), slog.String("url", req.URL))

	writeJSON(w, c.log, http.StatusCreated, game)
}

func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	var req GameRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	if err := c.service.Update(r.Context(), id, services.GameInput{
		Title:           req.Title,
		Maker:           req.Maker,
		NumberOfPlayers: req.NumberOfPlayers,
		SkillLevel:      req.SkillLevel,
		GameTypeID:      req.GameType,
	}); err != nil {
		writeError(w, c.log, op, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *GameController) Destroy(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Destroy"

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		writeError(w, c.log, op, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
