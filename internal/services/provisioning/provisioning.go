// Package provisioning реализует подключение больницы администратором:
// регистрация, выбор плана, создание больницы с подпиской и продление подписки.
//
// Состояния администратора: REGISTERED → PLAN_STAGED → PROVISIONED.
// Каждый переход фиксируется в хранилище до публикации события.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/storage/repository"
)

// Типы доменных событий. Используются как routing key.
const (
	EventAdminRegistered     = "admin.registered"
	EventPlanStaged          = "plan.staged"
	EventHospitalProvisioned = "hospital.provisioned"
	EventSubscriptionRenewed = "subscription.renewed"
)

// Сообщения об ошибках, которые видит клиент.
const (
	MsgEmailRegistered     = "email already registered"
	MsgAlreadySubscribed   = "you already have an active subscription, please create your hospital first"
	MsgInvalidPlan         = "invalid subscription plan"
	MsgPlanNotPurchased    = "please purchase a plan first"
	MsgHospitalExists      = "hospital already created for this admin"
	MsgHospitalEmailTaken  = "hospital email already exists"
	MsgAdminsOnly          = "only admins can perform this action"
	MsgNoHospital          = "create your hospital before renewing the subscription"
	MsgInvalidDuration     = "duration must be a positive number of days"
	MsgHospitalNameMissing = "hospital name is required"
)

// Repository описывает операции хранилища, нужные процессу подключения.
type Repository interface {
	UserEmailExists(ctx context.Context, email string) (bool, error)
	CreateAdmin(ctx context.Context, user models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	StagePlan(ctx context.Context, userID, planID string) (bool, error)
	HospitalEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	ProvisionHospital(ctx context.Context, adminID string, in models.HospitalInput,
		start, end time.Time) (*repository.ProvisionResult, error)
	RegisterHospital(ctx context.Context, params repository.RegisterParams) (*repository.ProvisionResult, error)
	UpsertSubscription(ctx context.Context, hospitalID, planID string, start, end time.Time) (*models.Subscription, error)
	GetHospital(ctx context.Context, id string) (*models.Hospital, error)
}

// Hasher хеширует пароли.
type Hasher interface {
	Hash(plain string) (string, error)
}

// TokenIssuer выпускает сессионный токен пользователя.
type TokenIssuer interface {
	IssueToken(user *models.User) (string, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Metrics считает переходы.
type Metrics interface {
	Transition(name string)
}

// SignupInput — данные регистрации администратора.
type SignupInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
}

// RegisterInput — данные одношаговой регистрации больницы с администратором.
type RegisterInput struct {
	Hospital      models.HospitalInput
	AdminName     string
	AdminEmail    string
	AdminPhone    *string
	AdminPassword string
	PlanID        string
}

// Registration — результат регистрации с выпущенным токеном.
type Registration struct {
	Admin        *models.User
	Hospital     *models.Hospital
	Subscription *models.Subscription
	Token        string
}

// Service реализует процесс подключения больницы.
type Service struct {
	repo      Repository
	hasher    Hasher
	tokens    TokenIssuer
	publisher Publisher
	metrics   Metrics
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Service.
func New(repo Repository, hasher Hasher, tokens TokenIssuer, publisher Publisher, metrics Metrics,
	log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// committed отмечает зафиксированный переход: увеличивает счётчик и публикует
// событие. Ошибка публикации только логируется, переход уже зафиксирован.
func (s *Service) committed(ctx context.Context, event string, payload any) {
	s.metrics.Transition(event)
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.log.Error("failed to publish event", slog.String("event", event), sl.Err(err))
	}
}

// Signup регистрирует администратора без больницы и выпускает токен.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Registration, error) {
	const op = "provisioning.Signup"

	exists, err := s.repo.UserEmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, apperr.Conflict(MsgEmailRegistered)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	admin, err := s.repo.CreateAdmin(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		// гонка между проверкой и вставкой
		if apperr.IsUniqueViolation(err, "") {
			return nil, apperr.Conflict(MsgEmailRegistered).Wrap(err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.IssueToken(admin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.committed(ctx, EventAdminRegistered, map[string]string{"adminId": admin.ID, "email": admin.Email})
	return &Registration{Admin: admin, Token: token}, nil
}

// purchasablePlan возвращает план, если он существует и активен.
func (s *Service) purchasablePlan(ctx context.Context, planID string) (*models.Plan, error) {
	if _, err := uuid.Parse(planID); err != nil {
		return nil, apperr.BadRequest(MsgInvalidPlan)
	}
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.BadRequest(MsgInvalidPlan).Wrap(err)
		}
		return nil, err
	}
	if !plan.IsPurchasable() {
		return nil, apperr.BadRequest(MsgInvalidPlan)
	}
	return plan, nil
}

// PurchasePlan запоминает выбранный администратором план. Повторный выбор
// до создания больницы заменяет предыдущий.
func (s *Service) PurchasePlan(ctx context.Context, principal *models.Principal, planID string) (*models.Plan, error) {
	const op = "provisioning.PurchasePlan"

	if !principal.Role.IsAdmin() {
		return nil, apperr.Forbidden(MsgAdminsOnly)
	}
	if principal.HasHospital() {
		return nil, apperr.BadRequest(MsgAlreadySubscribed)
	}

	plan, err := s.purchasablePlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	staged, err := s.repo.StagePlan(ctx, principal.ID, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !staged {
		// больница создана параллельным запросом
		return nil, apperr.BadRequest(MsgAlreadySubscribed)
	}

	s.committed(ctx, EventPlanStaged, map[string]string{"adminId": principal.ID, "planId": plan.ID})
	return plan, nil
}

// CreateHospital создаёт больницу и подписку по выбранному плану.
// Все изменения фиксируются одной транзакцией.
func (s *Service) CreateHospital(ctx context.Context, principal *models.Principal,
	in models.HospitalInput) (*repository.ProvisionResult, error) {
	const op = "provisioning.CreateHospital"

	if !principal.Role.IsAdmin() {
		return nil, apperr.Forbidden(MsgAdminsOnly)
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.BadRequest(MsgHospitalNameMissing)
	}

	user := principal.User
	if user == nil {
		var err error
		if user, err = s.repo.GetUserByID(ctx, principal.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if user.StagedPlanID == nil && user.HospitalID == nil {
		return nil, apperr.BadRequest(MsgPlanNotPurchased)
	}
	if user.HospitalID != nil {
		return nil, apperr.BadRequest(MsgHospitalExists)
	}
	if err := s.ensureHospitalEmailFree(ctx, in.Email, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := models.SubscriptionWindow(s.now(), models.DefaultSubscriptionDays)
	result, err := s.repo.ProvisionHospital(ctx, principal.ID, in, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateProvisionErr(err))
	}

	s.committed(ctx, EventHospitalProvisioned, map[string]string{
		"adminId":        principal.ID,
		"hospitalId":     result.Hospital.ID,
		"subscriptionId": result.Subscription.ID,
		"planId":         result.Subscription.PlanID,
	})
	return result, nil
}

// RegisterHospital одним шагом регистрирует администратора, больницу и подписку.
func (s *Service) RegisterHospital(ctx context.Context, in RegisterInput) (*Registration, error) {
	const op = "provisioning.RegisterHospital"

	if in.Hospital.Name == nil || strings.TrimSpace(*in.Hospital.Name) == "" {
		return nil, apperr.BadRequest(MsgHospitalNameMissing)
	}

	exists, err := s.repo.UserEmailExists(ctx, in.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, apperr.Conflict(MsgEmailRegistered)
	}
	if err = s.ensureHospitalEmailFree(ctx, in.Hospital.Email, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = s.purchasablePlan(ctx, in.PlanID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(in.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := models.SubscriptionWindow(s.now(), models.DefaultSubscriptionDays)
	result, err := s.repo.RegisterHospital(ctx, repository.RegisterParams{
		Hospital: in.Hospital,
		Admin: models.User{
			Name:         in.AdminName,
			Email:        in.AdminEmail,
			Phone:        in.AdminPhone,
			PasswordHash: hash,
		},
		PlanID:    in.PlanID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateProvisionErr(err))
	}

	token, err := s.tokens.IssueToken(result.Admin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.committed(ctx, EventAdminRegistered, map[string]string{"adminId": result.Admin.ID, "email": result.Admin.Email})
	s.committed(ctx, EventHospitalProvisioned, map[string]string{
		"adminId":        result.Admin.ID,
		"hospitalId":     result.Hospital.ID,
		"subscriptionId": result.Subscription.ID,
		"planId":         result.Subscription.PlanID,
	})
	return &Registration{
		Admin:        result.Admin,
		Hospital:     result.Hospital,
		Subscription: result.Subscription,
		Token:        token,
	}, nil
}

// RenewSubscription создаёт или продлевает подписку больницы администратора.
// durationDays равный нулю означает срок по умолчанию.
func (s *Service) RenewSubscription(ctx context.Context, principal *models.Principal, planID string,
	durationDays int) (*models.Subscription, error) {
	const op = "provisioning.RenewSubscription"

	if !principal.Role.IsAdmin() {
		return nil, apperr.Forbidden("only admins can purchase subscriptions")
	}
	if !principal.HasHospital() {
		return nil, apperr.BadRequest(MsgNoHospital)
	}
	if durationDays == 0 {
		durationDays = models.DefaultSubscriptionDays
	}
	if durationDays < 0 {
		return nil, apperr.BadRequest(MsgInvalidDuration)
	}

	plan, err := s.purchasablePlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := models.SubscriptionWindow(s.now(), durationDays)
	sub, err := s.repo.UpsertSubscription(ctx, *principal.HospitalID, plan.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Plan = plan

	s.committed(ctx, EventSubscriptionRenewed, map[string]any{
		"hospitalId": sub.HospitalID,
		"planId":     plan.ID,
		"endDate":    sub.EndDate,
	})
	return sub, nil
}

// AdminProfile возвращает администратора с больницей, подпиской и выбранным планом.
func (s *Service) AdminProfile(ctx context.Context, principal *models.Principal) (*models.AdminProfile, error) {
	const op = "provisioning.AdminProfile"

	user, err := s.repo.GetUserByID(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile := &models.AdminProfile{User: *user}

	if user.HospitalID != nil {
		hospital, err := s.repo.GetHospital(ctx, *user.HospitalID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profile.Hospital = hospital
	}
	if user.StagedPlanID != nil {
		plan, err := s.repo.GetPlan(ctx, *user.StagedPlanID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profile.StagedPlan = plan
	}
	return profile, nil
}

func (s *Service) ensureHospitalEmailFree(ctx context.Context, email *string, excludeID string) error {
	if email == nil || *email == "" {
		return nil
	}
	taken, err := s.repo.HospitalEmailExists(ctx, *email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(MsgHospitalEmailTaken)
	}
	return nil
}

// translateProvisionErr переводит отказы транзакции подключения в ошибки клиента.
func translateProvisionErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrPlanNotStaged):
		return apperr.BadRequest(MsgPlanNotPurchased).Wrap(err)
	case errors.Is(err, repository.ErrAlreadyProvisioned):
		return apperr.BadRequest(MsgHospitalExists).Wrap(err)
	case errors.Is(err, repository.ErrPlanUnavailable):
		return apperr.BadRequest(MsgInvalidPlan).Wrap(err)
	case apperr.IsUniqueViolation(err, "users_email_key"):
		return apperr.Conflict(MsgEmailRegistered).Wrap(err)
	case apperr.IsUniqueViolation(err, "hospitals_email_key"):
		return apperr.Conflict(MsgHospitalEmailTaken).Wrap(err)
	}
	return err
}
