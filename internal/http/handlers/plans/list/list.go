// Package list отдаёт список планов подписки.
//
// Публичные маршруты получают активные планы по возрастанию цены,
// супер-администратор видит их в порядке создания.
package list

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
	List(ctx context.Context) ([]models.Plan, error)
}

// Func позволяет использовать метод сервиса как Service.
type Func func(ctx context.Context) ([]models.Plan, error)

func (f Func) List(ctx context.Context) ([]models.Plan, error) {
	return f(ctx)
}

type Handler struct {
	log     *slog.Logger
	service Service
	message string
}

func New(log *slog.Logger, service Service, message string) *Handler {
	return &Handler{log: log, service: service, message: message}
}

// ServeHTTP godoc
// @Summary Список планов подписки
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/plans [get]
// @Router /auth/plans [get]
// @Router /super-admin/subscription-plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		response.Error(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.Plan{}
	}

	response.JSON(w, r, http.StatusOK, plans, h.message)
}
