// Package seed заполняет базу начальными данными: супер-администратором
// и стандартными планами подписки. Повторный запуск ничего не меняет.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adarsh1278/HSass-backend/internal/config"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// Store — методы хранилища, создающие записи только при их отсутствии.
type Store interface {
	EnsureSuperAdmin(ctx context.Context, name, email, passwordHash string) (*models.SuperAdmin, error)
	EnsurePlan(ctx context.Context, plan models.Plan) (*models.Plan, error)
}

type Hasher interface {
	Hash(plain string) (string, error)
}

func strPtr(s string) *string { return &s }

// DefaultPlans возвращает стандартный каталог планов.
func DefaultPlans() []models.Plan {
	return []models.Plan{
		{
			Name:         "Basic Plan",
			Description:  strPtr("Perfect for small clinics"),
			Price:        29.99,
			Currency:     models.DefaultCurrency,
			BillingCycle: models.DefaultBillingCycle,
			MaxUsers:     5,
			MaxPatients:  500,
			Features: []byte(`{"modules":["OPD","LAB"],"maxDoctors":3,"maxNurses":5,` +
				`"storage":"5GB","support":"Email"}`),
			Status: models.PlanActive,
		},
		{
			Name:         "Standard Plan",
			Description:  strPtr("Ideal for medium hospitals"),
			Price:        59.99,
			Currency:     models.DefaultCurrency,
			BillingCycle: models.DefaultBillingCycle,
			MaxUsers:     15,
			MaxPatients:  2000,
			Features: []byte(`{"modules":["OPD","IPD","LAB","PHARMACY"],"maxDoctors":10,"maxNurses":15,` +
				`"storage":"20GB","support":"Phone & Email"}`),
			Status: models.PlanActive,
		},
		{
			Name:         "Premium Plan",
			Description:  strPtr("Complete solution for large hospitals"),
			Price:        99.99,
			Currency:     models.DefaultCurrency,
			BillingCycle: models.DefaultBillingCycle,
			MaxUsers:     50,
			MaxPatients:  10000,
			Features: []byte(`{"modules":["OPD","IPD","LAB","PHARMACY","RADIOLOGY","SURGERY"],` +
				`"maxDoctors":30,"maxNurses":50,"storage":"Unlimited","support":"24/7 Phone & Email",` +
				`"analytics":true,"customReports":true}`),
			Status: models.PlanActive,
		},
	}
}

// Run создаёт супер-администратора и стандартные планы, если их ещё нет.
func Run(ctx context.Context, store Store, hasher Hasher, cfg config.Seed, log *slog.Logger) error {
	const op = "seed.Run"

	hash, err := hasher.Hash(cfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	admin, err := store.EnsureSuperAdmin(ctx, cfg.SuperAdminName, cfg.SuperAdminEmail, hash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("super admin ready", slog.String("email", admin.Email))

	for _, p := range DefaultPlans() {
		plan, err := store.EnsurePlan(ctx, p)
		if err != nil {
			return fmt.Errorf("%s: plan %s: %w", op, p.Name, err)
		}
		log.Info("subscription plan ready", slog.String("plan_id", plan.ID), slog.String("name", plan.Name))
	}
	return nil
}
