// Package login реализует HTTP-обработчик входа по email и паролю.
//
// Один и тот же обработчик обслуживает вход супер-администратора,
// администратора больницы и сотрудников: отличается только функция входа
// и ключ, под которым учётная запись возвращается в ответе.
// Токен выдаётся в теле ответа и в сессионной cookie.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/services/auth"
)

// Request — учётные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// Func позволяет использовать метод сервиса как Service.
type Func func(ctx context.Context, email, password string) (*auth.Session, error)

func (f Func) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	return f(ctx, email, password)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookie   session.Cookie
	dataKey  string
	validate *validator.Validate
}

// New создает Handler. dataKey — имя поля с учётной записью в ответе
// ("superAdmin", "admin" или "user").
func New(log *slog.Logger, service Service, cookie session.Cookie, dataKey string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookie:   cookie,
		dataKey:  dataKey,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход
// @Description Проверяет учётные данные и выдаёт сессионный токен (в теле и в cookie token).
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Router /super-admin/login [post]
// @Router /admin/login [post]
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	sess, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", slog.String("email", req.Email), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	var account any = sess.User
	if sess.SuperAdmin != nil {
		account = sess.SuperAdmin
	}

	h.cookie.Set(w, sess.Token)
	log.Info("login success", slog.String("email", req.Email))
	response.JSON(w, r, http.StatusOK, map[string]any{
		h.dataKey: account,
		"token":   sess.Token,
	}, "Login successful")
}
