// Package stats отдаёт агрегаты для панели супер-администратора.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

type Service interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика платформы
// @Tags SuperAdmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /super-admin/dashboard/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		log.Error("failed to collect dashboard stats", sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, stats, "Dashboard stats fetched successfully")
}
