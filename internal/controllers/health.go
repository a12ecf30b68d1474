package controllers

import (
	"log/slog"
	"net/http"
)

type Pinger interface {
	Ping() error
}

type HealthController struct {
	db  Pinger
	log *slog.Logger
}

func NewHealthController(db Pinger, log *slog.Logger) *HealthController {
	return &HealthController{db: db, log: log}
}

func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(); err != nil {
		c.log.Error("database ping failed", slog.String("error", err.Error()))
		writeJSON(w, c.log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, c.log, http.StatusOK, map[string]string{"status": "ok"})
}
