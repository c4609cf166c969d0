// Package health реализует проверку доступности API и базы данных.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
)

// Pinger проверяет соединение с хранилищем.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
	db  Pinger
	now func() time.Time
}

func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags System
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.system.health"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error("database is unavailable", slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
		response.Message(w, r, http.StatusServiceUnavailable, "database is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]any{
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}, "Hospital SaaS API is running")
}
