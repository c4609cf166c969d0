// Package profile реализует чтение профиля больницы, к которой привязан пользователь.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/middlewarectx"
	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

type Service interface {
	HospitalProfile(ctx context.Context, principal *models.Principal) (*models.HospitalDetails, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль больницы
// @Description Больница с подпиской, планом и количеством сотрудников и пациентов.
// @Tags Hospital
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Больница не найдена"
// @Router /auth/hospital/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hospital.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		response.Message(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenRequired)
		return
	}

	hospital, err := h.service.HospitalProfile(r.Context(), principal)
	if err != nil {
		log.Info("failed to load hospital profile", slog.String("user_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, hospital, "Hospital profile fetched successfully")
}
