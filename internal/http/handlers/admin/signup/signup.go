// Package signup реализует регистрацию администратора больницы без больницы.
// После регистрации администратор выбирает план и создаёт больницу.
package signup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/services/provisioning"
)

// Request — данные регистрации администратора.
type Request struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password string  `json:"password" validate:"required,min=6"`
}

// Service описывает регистрацию администратора.
type Service interface {
	Signup(ctx context.Context, in provisioning.SignupInput) (*provisioning.Registration, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	cookie   session.Cookie
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, cookie session.Cookie) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация администратора больницы
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body Request true "Данные администратора"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Router /admin/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	reg, err := h.service.Signup(r.Context(), provisioning.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		log.Info("signup failed", slog.String("email", req.Email), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	h.cookie.Set(w, reg.Token)
	log.Info("admin registered", slog.String("admin_id", reg.Admin.ID))
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"admin": reg.Admin,
		"token": reg.Token,
	}, "Admin registered successfully")
}
