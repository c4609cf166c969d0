// Package hospitals отдаёт супер-администратору список всех больниц.
package hospitals

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
	ListHospitals(ctx context.Context) ([]models.HospitalDetails, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список больниц
// @Description Больницы от новых к старым, с подпиской, планом и счётчиками.
// @Tags SuperAdmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /super-admin/hospitals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.hospitals"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListHospitals(r.Context())
	if err != nil {
		log.Error("failed to list hospitals", sl.Err(err))
		response.Error(w, r, err)
		return
	}
	if list == nil {
		list = []models.HospitalDetails{}
	}

	response.JSON(w, r, http.StatusOK, list, "Hospitals fetched successfully")
}
