package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"levelup_api/internal/models"
	"levelup_api/internal/storage"
)

type GamerServicer interface {
	GetByUID(ctx context.Context, uid string) (*models.Gamer, error)
	Register(ctx context.Context, uid, bio string) (*models.Gamer, error)
}

// The uid in these bodies is optional. When sent it must equal the uid the
// credentials resolved to.
type RegisterRequest struct {
	UID string `json:"uid" validate:"max=50"`
	Bio string `json:"bio" validate:"max=50"`
}

type CheckUserRequest struct {
	UID string `json:"uid" validate:"max=50"`
}

type GamerResponse struct {
	Valid bool          `json:"valid"`
	Gamer *models.Gamer `json:"gamer,omitempty"`
}

type GamerController struct {
	service GamerServicer
	log     *slog.Logger
}

func NewGamerController(s GamerServicer, log *slog.Logger) *GamerController {
	return &GamerController{service: s, log: log}
}

// Register creates the profile of the authenticated caller.
func (c *GamerController) Register(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.gamers.Register"

	var req RegisterRequest
	if err := decodeOptional(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	uid, ok := c.callerUID(w, r, req.UID)
	if !ok {
		return
	}

	gamer, err := c.service.Register(r.Context(), uid, req.Bio)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, GamerResponse{Valid: true, Gamer: gamer})
}

// CheckUser reports whether the authenticated caller has registered.
func (c *GamerController) CheckUser(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.gamers.CheckUser"

	var req CheckUserRequest
	if err := decodeOptional(r, &req); err != nil {
		writeBadRequest(w, c.log, op, err)
		return
	}

	uid, ok := c.callerUID(w, r, req.UID)
	if !ok {
		return
	}

	gamer, err := c.service.GetByUID(r.Context(), uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, c.log, http.StatusOK, GamerResponse{Valid: false})
		return
	}
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, GamerResponse{Valid: true, Gamer: gamer})
}

func (c *GamerController) Me(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.gamers.Me"

	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}

	gamer, err := c.service.GetByUID(r.Context(), uid)
	if err != nil {
		writeError(w, c.log, op, err)
		return
	}

	writeJSON(w, c.log, http.StatusOK, gamer)
}

// callerUID returns the resolved identity, writing 401 when there is none and
// 403 when claimed names someone else.
func (c *GamerController) callerUID(w http.ResponseWriter, r *http.Request, claimed string) (string, bool) {
	uid, ok := requesterUID(r)
	if !ok {
		writeMessage(w, c.log, http.StatusUnauthorized, ErrUnauthorized.Error())
		return "", false
	}

	if claimed != "" && claimed != uid {
		c.log.Warn("uid does not match credentials",
			slog.String("uid", uid),
			slog.String("claimed", claimed))
		writeMessage(w, c.log, http.StatusForbidden, ErrUIDMismatch.Error())
		return "", false
	}

	return uid, true
}
