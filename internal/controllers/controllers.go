package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"levelup_api/internal/auth"
	"levelup_api/internal/catalog"
	"levelup_api/internal/services"
	"levelup_api/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidID    = errors.New("invalid id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("you are not the organizer of this event")
	ErrUIDMismatch  = errors.New("uid does not match credentials")
	ErrExists       = errors.New("already exists")
	ErrInUse        = errors.New("still referenced by events")
	ErrInternal     = errors.New("internal error")
	ErrUpstream     = errors.New("store page unavailable")
	ErrEncoding     = errors.New("failed to encode")
)

type MessageResponse struct {
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, ok := normalizeClock(fl.Field().String())
		return ok
	})
	return v
}

// normalizeClock accepts HH:MM and HH:MM:SS and returns HH:MM:SS.
func normalizeClock(s string) (string, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return validate.Struct(dst)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func requesterUID(r *http.Request) (string, bool) {
	id, ok := auth.FromContext(r.Context())
	return id.UID, ok
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, MessageResponse{Message: msg})
}

// writeError maps service failures onto HTTP statuses. Unclassified errors
// are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var nf *services.NotFoundError

	switch {
	case errors.As(err, &nf):
		writeMessage(w, log, http.StatusNotFound, nf.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, log, http.StatusNotFound, storage.ErrNotFound.Error())
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, log, http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, storage.ErrExists):
		writeMessage(w, log, http.StatusConflict, ErrExists.Error())
	case errors.Is(err, storage.ErrInUse):
		writeMessage(w, log, http.StatusConflict, ErrInUse.Error())
	case errors.Is(err, catalog.ErrInvalidURL):
		writeMessage(w, log, http.StatusBadRequest, catalog.ErrInvalidURL.Error())
	case errors.Is(err, catalog.ErrIncomplete):
		writeMessage(w, log, http.StatusUnprocessableEntity, catalog.ErrIncomplete.Error())
	case errors.Is(err, catalog.ErrUpstream):
		log.Warn(ErrUpstream.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, log, http.StatusBadGateway, ErrUpstream.Error())
	default:
		log.Error(ErrInternal.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, log, http.StatusInternalServerError, ErrInternal.Error())
	}
}

func writeBadRequest(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	log.Debug(ErrBadRequest.Error(), slog.String("operation", op), slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		writeMessage(w, log, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
		return
	}

	writeMessage(w, log, http.StatusBadRequest, ErrBadRequest.Error())
}
