// Package profile реализует чтение профиля администратора: учётная запись,
// больница с подпиской и выбранный, но ещё не использованный план.
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
	AdminProfile(ctx context.Context, principal *models.Principal) (*models.AdminProfile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль администратора
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		response.Message(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenRequired)
		return
	}

	profile, err := h.service.AdminProfile(r.Context(), principal)
	if err != nil {
		log.Error("failed to load admin profile", slog.String("user_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, profile, "Profile retrieved successfully")
}
