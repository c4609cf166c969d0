// Package deactivate реализует снятие плана подписки с продажи.
// План не удаляется, а получает статус INACTIVE.
package deactivate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

type Service interface {
	Deactivate(ctx context.Context, id string) (*models.Plan, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Деактивация плана подписки
// @Tags SuperAdmin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID плана"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Router /super-admin/subscription-plans/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	plan, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		log.Info("failed to deactivate plan", slog.String("plan_id", id), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	log.Info("plan deactivated", slog.String("plan_id", id))
	response.JSON(w, r, http.StatusOK, plan, "Subscription plan deactivated successfully")
}
