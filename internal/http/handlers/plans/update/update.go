// Package update реализует изменение плана подписки супер-администратором.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

type Service interface {
	Update(ctx context.Context, id string, upd models.PlanUpdate) (*models.Plan, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменение плана подписки
// @Description Меняются только переданные поля.
// @Tags SuperAdmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID плана"
// @Param request body models.PlanUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Router /super-admin/subscription-plans/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.PlanUpdate
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Info("failed to update plan", slog.String("plan_id", id), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, updated, "Subscription plan updated successfully")
}
