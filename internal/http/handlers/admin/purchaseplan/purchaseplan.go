// Package purchaseplan реализует выбор плана администратором до создания больницы.
package purchaseplan

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

// Request — выбранный план.
type Request struct {
	PlanID string `json:"planId" validate:"required"`
}

// Service описывает выбор плана.
type Service interface {
	PurchasePlan(ctx context.Context, principal *models.Principal, planID string) (*models.Plan, error)
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
// @Summary Выбор плана подписки
// @Description Запоминает план до создания больницы. Повторный вызов заменяет выбранный план.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "План"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "План недоступен или больница уже создана"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/purchase-plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.purchaseplan"

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

	plan, err := h.service.PurchasePlan(r.Context(), principal, req.PlanID)
	if err != nil {
		log.Info("purchase plan failed", slog.String("admin_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	log.Info("plan staged", slog.String("admin_id", principal.ID), slog.String("plan_id", plan.ID))
	response.JSON(w, r, http.StatusOK, map[string]any{
		"plan":    plan,
		"message": "Plan purchased successfully! Please create your hospital now.",
	}, "Plan purchased successfully")
}
