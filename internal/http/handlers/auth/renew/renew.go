// Package renew реализует оформление или продление подписки больницы.
package renew

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/middlewarectx"
	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// Request — план и срок подписки в днях. Нулевой срок означает 30 дней.
type Request struct {
	PlanID   string `json:"planId" validate:"required"`
	Duration int    `json:"duration" validate:"gte=0,max=3650"`
}

type Service interface {
	RenewSubscription(ctx context.Context, principal *models.Principal, planID string,
		durationDays int) (*models.Subscription, error)
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
// @Summary Оформление подписки
// @Description Создаёт подписку больницы или заменяет план и срок действующей.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "План и срок"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Только администратор"
// @Router /auth/subscription/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.renew"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		response.Message(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenRequired)
		return
	}

	var req Request
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	sub, err := h.service.RenewSubscription(r.Context(), principal, req.PlanID, req.Duration)
	if err != nil {
		log.Info("subscription purchase failed", slog.String("user_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	log.Info("subscription updated", slog.String("hospital_id", sub.HospitalID), slog.Time("end_date", sub.EndDate))
	response.JSON(w, r, http.StatusOK, sub, "Subscription updated successfully")
}
