package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"levelup_api/internal/models"
	"levelup_api/internal/services"
	"levelup_api/internal/storage"
)

type EventServicer interface {
	List(ctx context.Context, viewerUID string, gameID *int64) ([]models.Event, error)
	GetByID(ctx context.Context, id int64, viewerUID string) (*models.Event, error)
	Create(ctx context.Context, organizerUID string, in services.EventInput) (*models.Event, error)
	Update(ctx context.Context, id int64, requesterUID string, in services.EventInput) error
	Delete(ctx context.Context, id int64, requesterUID string) error
	Signup(ctx context.Context, id int64, gamerUID string) error
	Leave(ctx context.Context, id int64, gamerUID string) error
}

type EventRequest struct {
	Game        int64  `json:"game" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,clock"`
}

func (req EventRequest) input() services.EventInput {
	clock, _ := normalizeClock(req.Time)
	return services.EventInput{
		GameID:      req.Game,
		Description: req.Description,
		Date:        req.Date,
		Time:        clock,
	}
}

const MessageGamerAdded = "Gamer added"

type EventController struct {
	service EventServicer
	log     *slog.Logger
}

func NewEventController(s EventServicer, log *slog.Logger) *EventController {
	return &EventController{
		service: s,
		log:     log,
	}
}

// List handles GET /events, optionally narrowed with ?game=<id>.
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.List"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	var gameID *int64
	if raw := r.URL.Query().Get("game"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeBadRequest(w, c.log, op, ErrInvalidID)
			return
		}
		gameID = &id
	}

	events, err := c.service.List(r.Context(), uid, gameID)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, events)
}

// Retrieve handles GET /events/{id}. Identity is optional here.
func (c *EventController) Retrieve(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Retrieve"

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	uid, _ := requesterUID(r)

	event, err := c.service.GetByID(r.Context(), id, uid)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, event)
}

func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Create"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	var req EventRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	event, err := c.service.Create(r.Context(), uid, req.input())
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, event)
}

func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Update"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	var req EventRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	if err := c.service.Update(r.Context(), id, uid, req.input()); err != nil {
		writeError(w, c.log, op, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *EventController) Destroy(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Destroy"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, uid); err != nil {
		writeError(w, c.log, op, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *EventController) Signup(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Signup"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	err = c.service.Signup(r.Context(), id, uid)
	if errors.Is(err, storage.ErrExists) {
		writeMessage(w, c.log, http.StatusConflict, "gamer already signed up")
		return
	}
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeMessage(w, c.log, http.StatusCreated, MessageGamerAdded)
}

func (c *EventController) Leave(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Leave"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	if err := c.service.Leave(r.Context(), id, uid); err != nil {
		writeError(w, c.log, op, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
