// Package createhospital реализует создание больницы администратором
// по ранее выбранному плану. Больница, подписка и привязка администратора
// создаются одной транзакцией.
package createhospital

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
	"github.com/adarsh1278/HSass-backend/internal/storage/repository"
)

// Request — профиль создаваемой больницы.
type Request struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	Pincode       *string `json:"pincode" validate:"omitempty,max=20"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Website       *string `json:"website"`
	LicenseNumber *string `json:"licenseNumber"`
}

// Input переводит запрос в models.HospitalInput.
func (req Request) Input() models.HospitalInput {
	name := req.Name
	return models.HospitalInput{
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
	}
}

// Service описывает создание больницы.
type Service interface {
	CreateHospital(ctx context.Context, principal *models.Principal,
		in models.HospitalInput) (*repository.ProvisionResult, error)
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
// @Summary Создание больницы
// @Description Создаёт больницу и 30-дневную подписку по выбранному плану.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Профиль больницы"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "План не выбран или больница уже создана"
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Email больницы занят"
// @Router /admin/create-hospital [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.createhospital"

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

	res, err := h.service.CreateHospital(r.Context(), principal, req.Input())
	if err != nil {
		log.Info("create hospital failed", slog.String("admin_id", principal.ID), sl.Err(err))
		response.Error(w, r, err)
		return
	}

	log.Info("hospital created", slog.String("admin_id", principal.ID), slog.String("hospital_id", res.Hospital.ID))
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"hospital":     res.Hospital,
		"subscription": res.Subscription,
	}, "Hospital created successfully")
}
