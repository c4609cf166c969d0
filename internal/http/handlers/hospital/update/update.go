// Package update реализует изменение профиля больницы администратором.
// Изменяются только перечисленные в models.HospitalInput поля.
package update

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

type Service interface {
	UpdateHospitalProfile(ctx context.Context, principal *models.Principal,
		in models.HospitalInput) (*models.Hospital, error)
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
// @Summary Изменение профиля больницы
// @Description Неизвестные поля тела запроса игнорируются.
// @Tags Hospital
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.HospitalInput true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только администратор"
// @Failure 409 {object} response.ErrorResponse "Email больницы занят"
// @Router /auth/hospital/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hospital.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		response.Message(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenRequired)
		return
	}

	var req models.HospitalInput
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	hospital, err := h.service.UpdateHospitalProfile(r.Context(), principal, req)
	if err != nil {
		log.Info("hospital profile update failed", slog.String("user_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, hospital, "Hospital profile updated successfully")
}
