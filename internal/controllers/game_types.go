package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"levelup_api/internal/models"
)

type GameTypeServicer interface {
	List(ctx context.Context) ([]models.GameType, error)
	GetByID(ctx context.Context, id int64) (*models.GameType, error)
}

type GameTypeController struct {
	service GameTypeServicer
	log     *slog.Logger
}

func NewGameTypeController(s GameTypeServicer, log *slog.Logger) *GameTypeController {
	return &GameTypeController{service: s, log: log}
}

func (c *GameTypeController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.game_types.List"

	types, err := c.service.List(r.Context())
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, types)
}

func (c *GameTypeController) Retrieve(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.game_types.Retrieve"

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	gt, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, gt)
}
