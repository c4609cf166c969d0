// Package plan содержит бизнес-логику каталога планов подписки:
// публичный список с кешированием и управление планами супер-администратором.
package plan

import (
	"context"
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

// ActivePlansKey — ключ кеша публичного списка планов.
const ActivePlansKey = "plans:active"

// EventPlanChanged публикуется после любого изменения каталога.
const EventPlanChanged = "plan.changed"

const (
	MsgPlanNameTaken = "subscription plan with this name already exists"
	MsgPlanNotFound  = "subscription plan not found"
)

// Repository определяет методы хранилища для работы с планами.
type Repository interface {
	// CreatePlan сохраняет новый план.
	CreatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error)
	// GetPlan возвращает план по ID.
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	// ListActivePlans возвращает активные планы в заданном порядке.
	ListActivePlans(ctx context.Context, order repository.PlanOrder) ([]models.Plan, error)
	// UpdatePlan изменяет заданные поля плана.
	UpdatePlan(ctx context.Context, id string, upd models.PlanUpdate) (*models.Plan, error)
	// SetPlanStatus меняет статус плана.
	SetPlanStatus(ctx context.Context, id string, status models.PlanStatus) (*models.Plan, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// CreateInput — данные нового плана. Пустые поля получают значения по умолчанию.
type CreateInput struct {
	Name         string
	Description  *string
	Price        float64
	Currency     string
	BillingCycle string
	MaxUsers     int
	MaxPatients  int
	Features     []byte
}

// Service реализует каталог планов.
type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	cacheTTL  time.Duration
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, publisher Publisher, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Create создает план, подставляя значения по умолчанию.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Plan, error) {
	const op = "plan.Create"

	p := models.Plan{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Currency:     in.Currency,
		BillingCycle: in.BillingCycle,
		MaxUsers:     in.MaxUsers,
		MaxPatients:  in.MaxPatients,
		Features:     in.Features,
		Status:       models.PlanActive,
	}
	if p.Name == "" {
		return nil, apperr.BadRequest("plan name is required")
	}
	if p.Price < 0 {
		return nil, apperr.BadRequest("price must not be negative")
	}
	if p.Currency == "" {
		p.Currency = models.DefaultCurrency
	}
	if p.BillingCycle == "" {
		p.BillingCycle = models.DefaultBillingCycle
	}
	if p.MaxUsers == 0 {
		p.MaxUsers = models.DefaultMaxUsers
	}
	if p.MaxPatients == 0 {
		p.MaxPatients = models.DefaultMaxPatients
	}

	created, err := s.repo.CreatePlan(ctx, p)
	if err != nil {
		if apperr.IsUniqueViolation(err, "") {
			return nil, apperr.Conflict(MsgPlanNameTaken).Wrap(err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created subscription plan", slog.String("plan_id", created.ID), slog.String("name", created.Name))
	s.changed(ctx, created)
	return created, nil
}

// ListActive возвращает активные планы по возрастанию цены. Список кешируется,
// ошибки кеша не мешают чтению из хранилища.
func (s *Service) ListActive(ctx context.Context) ([]models.Plan, error) {
	const op = "plan.ListActive"

	var cached []models.Plan
	found, err := s.cache.Get(ctx, ActivePlansKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", slog.String("key", ActivePlansKey), sl.Err(err))
	}
	if found && err == nil {
		return cached, nil
	}

	plans, err := s.repo.ListActivePlans(ctx, repository.PlanOrderPrice)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.Plan{}
	}

	if err := s.cache.Set(ctx, ActivePlansKey, plans, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache plans", slog.String("key", ActivePlansKey), sl.Err(err))
	}
	return plans, nil
}

// ListManaged возвращает активные планы, начиная с новых. Кеш не используется.
func (s *Service) ListManaged(ctx context.Context) ([]models.Plan, error) {
	const op = "plan.ListManaged"

	plans, err := s.repo.ListActivePlans(ctx, repository.PlanOrderNewest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	return plans, nil
}

// Update изменяет заданные поля плана.
func (s *Service) Update(ctx context.Context, id string, upd models.PlanUpdate) (*models.Plan, error) {
	const op = "plan.Update"

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(MsgPlanNotFound)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.BadRequest("plan name must not be empty")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, apperr.BadRequest("price must not be negative")
	}
	if upd.Status != nil && *upd.Status != models.PlanActive && *upd.Status != models.PlanInactive {
		return nil, apperr.BadRequest("invalid plan status")
	}

	p, err := s.repo.UpdatePlan(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, planErr(err))
	}

	s.log.Info("updated subscription plan", slog.String("plan_id", p.ID))
	s.changed(ctx, p)
	return p, nil
}

// Deactivate переводит план в статус INACTIVE. Планы не удаляются:
// на них ссылаются существующие подписки.
func (s *Service) Deactivate(ctx context.Context, id string) (*models.Plan, error) {
	const op = "plan.Deactivate"

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(MsgPlanNotFound)
	}

	p, err := s.repo.SetPlanStatus(ctx, id, models.PlanInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, planErr(err))
	}

	s.log.Info("deactivated subscription plan", slog.String("plan_id", p.ID))
	s.changed(ctx, p)
	return p, nil
}

// changed сбрасывает кеш публичного списка и публикует событие.
func (s *Service) changed(ctx context.Context, p *models.Plan) {
	if err := s.cache.Invalidate(ctx, ActivePlansKey); err != nil {
		s.log.Warn("failed to invalidate plans cache", slog.String("key", ActivePlansKey), sl.Err(err))
	}
	payload := map[string]string{"planId": p.ID, "name": p.Name, "status": string(p.Status)}
	if err := s.publisher.Publish(ctx, EventPlanChanged, payload); err != nil {
		s.log.Error("failed to publish event", slog.String("event", EventPlanChanged), sl.Err(err))
	}
}

func planErr(err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return apperr.NotFound(MsgPlanNotFound).Wrap(err)
	case apperr.KindConflict:
		return apperr.Conflict(MsgPlanNameTaken).Wrap(err)
	}
	return err
}
