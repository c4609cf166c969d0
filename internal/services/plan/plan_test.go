package plan_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/cache"
	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/services/plan"
	"github.com/adarsh1278/HSass-backend/internal/storage/repository"
)

const planID = "0b8e7d5a-1f0e-4c55-8a52-8c7a1f9e2b02"

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreatePlan(ctx context.Context, p models.Plan) (*models.Plan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *RepoMock) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *RepoMock) ListActivePlans(ctx context.Context, order repository.PlanOrder) ([]models.Plan, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}

func (m *RepoMock) UpdatePlan(ctx context.Context, id string, upd models.PlanUpdate) (*models.Plan, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *RepoMock) SetPlanStatus(ctx context.Context, id string, status models.PlanStatus) (*models.Plan, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type publisherStub struct {
	events []string
}

func (p *publisherStub) Publish(_ context.Context, eventType string, _ any) error {
	p.events = append(p.events, eventType)
	return nil
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &cache.Cache{Db: client}, mr
}

func newService(t *testing.T, repo *RepoMock) (*plan.Service, *publisherStub, *miniredis.Miniredis) {
	t.Helper()
	c, mr := newTestCache(t)
	pub := &publisherStub{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return plan.New(repo, c, pub, time.Minute, log), pub, mr
}

func samplePlans() []models.Plan {
	return []models.Plan{
		{ID: "p1", Name: "Basic", Price: 29.99, Status: models.PlanActive, Features: []byte(`{"maxDoctors":5}`)},
		{ID: "p2", Name: "Standard", Price: 59.99, Status: models.PlanActive, Features: []byte(`{"maxDoctors":15}`)},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		repo := &RepoMock{}
		svc, pub, mr := newService(t, repo)
		require.NoError(t, mr.Set(plan.ActivePlansKey, "[]"))

		repo.On("CreatePlan", ctx, mock.MatchedBy(func(p models.Plan) bool {
			return p.Name == "Gold" &&
				p.Currency == models.DefaultCurrency &&
				p.BillingCycle == models.DefaultBillingCycle &&
				p.MaxUsers == models.DefaultMaxUsers &&
				p.MaxPatients == models.DefaultMaxPatients &&
				p.Status == models.PlanActive
		})).Return(&models.Plan{ID: planID, Name: "Gold", Status: models.PlanActive}, nil).Once()

		p, err := svc.Create(ctx, plan.CreateInput{Name: " Gold ", Price: 10})
		require.NoError(t, err)
		assert.Equal(t, planID, p.ID)
		assert.False(t, mr.Exists(plan.ActivePlansKey))
		assert.Equal(t, []string{plan.EventPlanChanged}, pub.events)
		repo.AssertExpectations(t)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)
		repo.On("CreatePlan", ctx, mock.MatchedBy(func(p models.Plan) bool {
			return p.Currency == "INR" && p.BillingCycle == "yearly" && p.MaxUsers == 3 && p.MaxPatients == 50
		})).Return(&models.Plan{ID: planID, Name: "Gold"}, nil).Once()

		_, err := svc.Create(ctx, plan.CreateInput{Name: "Gold", Currency: "INR", BillingCycle: "yearly",
			MaxUsers: 3, MaxPatients: 50})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := &RepoMock{}
		svc, pub, _ := newService(t, repo)
		repo.On("CreatePlan", ctx, mock.Anything).
			Return(nil, fmt.Errorf("storage.CreatePlan: %w", &pgconn.PgError{Code: "23505"})).Once()

		_, err := svc.Create(ctx, plan.CreateInput{Name: "Basic", Price: 29.99})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Empty(t, pub.events)
	})

	t.Run("validation", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)

		_, err := svc.Create(ctx, plan.CreateInput{Name: "  "})
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		_, err = svc.Create(ctx, plan.CreateInput{Name: "Gold", Price: -1})
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		repo.AssertNotCalled(t, "CreatePlan", mock.Anything, mock.Anything)
	})
}

func TestService_ListActive(t *testing.T) {
	ctx := context.Background()

	t.Run("second call served from cache", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, mr := newService(t, repo)
		repo.On("ListActivePlans", ctx, repository.PlanOrderPrice).Return(samplePlans(), nil).Once()

		first, err := svc.ListActive(ctx)
		require.NoError(t, err)
		assert.True(t, mr.Exists(plan.ActivePlansKey))

		second, err := svc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.Equal(t, first[0].Name, second[0].Name)
		assert.JSONEq(t, `{"maxDoctors":5}`, string(second[0].Features))
		repo.AssertNumberOfCalls(t, "ListActivePlans", 1)
	})

	t.Run("cache expires", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, mr := newService(t, repo)
		repo.On("ListActivePlans", ctx, repository.PlanOrderPrice).Return(samplePlans(), nil).Twice()

		_, err := svc.ListActive(ctx)
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)
		_, err = svc.ListActive(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("falls back to store when cache is down", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, mr := newService(t, repo)
		mr.Close()
		repo.On("ListActivePlans", ctx, repository.PlanOrderPrice).Return(samplePlans(), nil).Once()

		plans, err := svc.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})

	t.Run("empty catalog is an empty list", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)
		repo.On("ListActivePlans", ctx, repository.PlanOrderPrice).Return([]models.Plan(nil), nil).Once()

		plans, err := svc.ListActive(ctx)
		require.NoError(t, err)
		assert.NotNil(t, plans)
		assert.Empty(t, plans)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)
		repo.On("ListActivePlans", ctx, repository.PlanOrderPrice).Return(nil, errors.New("db down")).Once()

		_, err := svc.ListActive(ctx)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

func TestService_ListManaged(t *testing.T) {
	ctx := context.Background()
	repo := &RepoMock{}
	svc, _, mr := newService(t, repo)
	repo.On("ListActivePlans", ctx, repository.PlanOrderNewest).Return(samplePlans(), nil).Once()

	plans, err := svc.ListManaged(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.False(t, mr.Exists(plan.ActivePlansKey))
	repo.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	price := 49.0
	upd := models.PlanUpdate{Price: &price}

	t.Run("success invalidates cache", func(t *testing.T) {
		repo := &RepoMock{}
		svc, pub, mr := newService(t, repo)
		require.NoError(t, mr.Set(plan.ActivePlansKey, "[]"))
		repo.On("UpdatePlan", ctx, planID, upd).
			Return(&models.Plan{ID: planID, Name: "Basic", Price: 49, Status: models.PlanActive}, nil).Once()

		p, err := svc.Update(ctx, planID, upd)
		require.NoError(t, err)
		assert.Equal(t, 49.0, p.Price)
		assert.False(t, mr.Exists(plan.ActivePlansKey))
		assert.Equal(t, []string{plan.EventPlanChanged}, pub.events)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &RepoMock{}
		svc, pub, _ := newService(t, repo)
		repo.On("UpdatePlan", ctx, planID, upd).
			Return(nil, fmt.Errorf("storage.UpdatePlan: %w", sql.ErrNoRows)).Once()

		_, err := svc.Update(ctx, planID, upd)
		require.Error(t, err)
		appErr := apperr.From(err)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		assert.Equal(t, plan.MsgPlanNotFound, appErr.Message)
		assert.Empty(t, pub.events)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)

		_, err := svc.Update(ctx, "42", upd)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		repo.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)
		empty := ""
		negative := -5.0
		bogus := models.PlanStatus("ARCHIVED")

		for _, bad := range []models.PlanUpdate{{Name: &empty}, {Price: &negative}, {Status: &bogus}} {
			_, err := svc.Update(ctx, planID, bad)
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		}
		repo.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &RepoMock{}
		svc, pub, mr := newService(t, repo)
		require.NoError(t, mr.Set(plan.ActivePlansKey, "[]"))
		repo.On("SetPlanStatus", ctx, planID, models.PlanInactive).
			Return(&models.Plan{ID: planID, Status: models.PlanInactive}, nil).Once()

		p, err := svc.Deactivate(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, models.PlanInactive, p.Status)
		assert.False(t, mr.Exists(plan.ActivePlansKey))
		assert.Equal(t, []string{plan.EventPlanChanged}, pub.events)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &RepoMock{}
		svc, _, _ := newService(t, repo)
		repo.On("SetPlanStatus", ctx, planID, models.PlanInactive).
			Return(nil, fmt.Errorf("storage.SetPlanStatus: %w", sql.ErrNoRows)).Once()

		_, err := svc.Deactivate(ctx, planID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
