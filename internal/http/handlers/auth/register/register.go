// Package register реализует одношаговую регистрацию больницы: администратор,
// больница и подписка создаются одной транзакцией, минуя выбор плана.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/services/provisioning"
)

// Request — данные больницы и её администратора.
type Request struct {
	HospitalName  string  `json:"hospitalName" validate:"required,max=200"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	Pincode       *string `json:"pincode" validate:"omitempty,max=20"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Website       *string `json:"website"`
	LicenseNumber *string `json:"licenseNumber"`
	AdminName     string  `json:"adminName" validate:"required,max=100"`
	AdminEmail    string  `json:"adminEmail" validate:"required,email"`
	AdminPhone    *string `json:"adminPhone" validate:"omitempty,max=30"`
	AdminPassword string  `json:"adminPassword" validate:"required,min=6"`
	PlanID        string  `json:"planId" validate:"required"`
}

func (req Request) input() provisioning.RegisterInput {
	name := req.HospitalName
	return provisioning.RegisterInput{
		Hospital: models.HospitalInput{
			Name:          &name,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			Country:       req.Country,
			Pincode:       req.Pincode,
			Phone:         req.Phone,
			Email:         req.Email,
			Website:       req.Website,
			LicenseNumber: req.LicenseNumber,
		},
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPhone:    req.AdminPhone,
		AdminPassword: req.AdminPassword,
		PlanID:        req.PlanID,
	}
}

// Service описывает регистрацию больницы.
type Service interface {
	RegisterHospital(ctx context.Context, in provisioning.RegisterInput) (*provisioning.Registration, error)
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
// @Summary Регистрация больницы
// @Description Создаёт больницу, 30-дневную подписку и администратора. Выдаёт сессионный токен.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Больница и администратор"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или недоступный план"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Bind(w, r, log, h.validate, &req) {
		return
	}

	reg, err := h.service.RegisterHospital(r.Context(), req.input())
	if err != nil {
		log.Info("hospital registration failed", slog.String("admin_email", req.AdminEmail), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	h.cookie.Set(w, reg.Token)
	log.Info("hospital registered", slog.String("hospital_id", reg.Hospital.ID), slog.String("admin_id", reg.Admin.ID))
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"hospital":     reg.Hospital,
		"subscription": reg.Subscription,
		"admin":        reg.Admin,
		"token":        reg.Token,
	}, "Hospital registered successfully")
}
