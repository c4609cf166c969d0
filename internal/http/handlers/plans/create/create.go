// Package create реализует создание плана подписки супер-администратором.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/services/plan"
)

// Request — новый план. Необязательные поля получают значения по умолчанию.
type Request struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  *string         `json:"description,omitempty"`
	Price        float64         `json:"price" validate:"gte=0"`
	Currency     string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	BillingCycle string          `json:"billingCycle,omitempty" validate:"omitempty,oneof=monthly yearly"`
	MaxUsers     int             `json:"maxUsers,omitempty" validate:"gte=0"`
	MaxPatients  int             `json:"maxPatients,omitempty" validate:"gte=0"`
	Features     json.RawMessage `json:"features,omitempty" swaggertype:"object"`
}

type Service interface {
	Create(ctx context.Context, in plan.CreateInput) (*models.Plan, error)
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
// @Summary Создание плана подписки
// @Tags SuperAdmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "План"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "План с таким именем уже есть"
// @Router /super-admin/subscription-plans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), plan.CreateInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		MaxUsers:     req.MaxUsers,
		MaxPatients:  req.MaxPatients,
		Features:     req.Features,
	})
	if err != nil {
		log.Info("failed to create plan", slog.String("name", req.Name), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusCreated, created, "Subscription plan created successfully")
}
