// Package tenant содержит справочник больниц для супер-администратора,
// профиль больницы для её сотрудников и сводную статистику панели.
package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

const (
	MsgHospitalNotFound   = "hospital not found"
	MsgAdminsOnly         = "only admins can update hospital profile"
	MsgHospitalEmailTaken = "hospital email already exists"
)

// Repository определяет методы хранилища для больниц и статистики.
type Repository interface {
	ListHospitals(ctx context.Context) ([]models.HospitalDetails, error)
	GetHospital(ctx context.Context, id string) (*models.Hospital, error)
	GetHospitalCounts(ctx context.Context, id string) (models.HospitalCounts, error)
	HospitalEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	UpdateHospital(ctx context.Context, id string, in models.HospitalInput) (*models.Hospital, error)
	CountHospitals(ctx context.Context, onlyActive bool) (int, error)
	CountSubscriptions(ctx context.Context, onlyActive bool) (int, error)
	CountActivePlans(ctx context.Context) (int, error)
}

// Service реализует справочник больниц.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListHospitals возвращает все больницы, начиная с новых.
func (s *Service) ListHospitals(ctx context.Context) ([]models.HospitalDetails, error) {
	const op = "tenant.ListHospitals"

	hospitals, err := s.repo.ListHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return hospitals, nil
}

// HospitalProfile возвращает больницу, к которой привязан субъект,
// с подпиской и количеством сотрудников и пациентов.
func (s *Service) HospitalProfile(ctx context.Context, principal *models.Principal) (*models.HospitalDetails, error) {
	const op = "tenant.HospitalProfile"

	if !principal.HasHospital() {
		return nil, apperr.NotFound(MsgHospitalNotFound)
	}
	id := *principal.HospitalID

	h, err := s.repo.GetHospital(ctx, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound(MsgHospitalNotFound).Wrap(err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	counts, err := s.repo.GetHospitalCounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.HospitalDetails{Hospital: *h, Count: counts}, nil
}

// UpdateHospitalProfile изменяет профиль больницы администратора.
// Изменяются только поля из models.HospitalInput.
func (s *Service) UpdateHospitalProfile(ctx context.Context, principal *models.Principal,
	in models.HospitalInput) (*models.Hospital, error) {
	const op = "tenant.UpdateHospitalProfile"

	if !principal.Role.IsAdmin() {
		return nil, apperr.Forbidden(MsgAdminsOnly)
	}
	if !principal.HasHospital() {
		return nil, apperr.NotFound(MsgHospitalNotFound)
	}
	id := *principal.HospitalID

	if in.Name != nil && *in.Name == "" {
		return nil, apperr.BadRequest("hospital name must not be empty")
	}
	if in.Email != nil && *in.Email != "" {
		taken, err := s.repo.HospitalEmailExists(ctx, *in.Email, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return nil, apperr.Conflict(MsgHospitalEmailTaken)
		}
	}

	h, err := s.repo.UpdateHospital(ctx, id, in)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindConflict:
			return nil, apperr.Conflict(MsgHospitalEmailTaken).Wrap(err)
		case apperr.KindNotFound:
			return nil, apperr.NotFound(MsgHospitalNotFound).Wrap(err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("hospital profile updated", slog.String("hospital_id", id), slog.String("user_id", principal.ID))
	return h, nil
}

// DashboardStats считает агрегаты панели параллельно.
// Первая ошибка отменяет остальные запросы.
func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "tenant.DashboardStats"

	var stats models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalHospitals, err = s.repo.CountHospitals(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveHospitals, err = s.repo.CountHospitals(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubscriptions, err = s.repo.CountSubscriptions(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveSubscriptions, err = s.repo.CountSubscriptions(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPlans, err = s.repo.CountActivePlans(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}
