package tenant_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/services/tenant"
)

const hospitalID = "9a4d1c3e-7b2f-4e8a-b6d5-2f1e0c9b8a03"

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListHospitals(ctx context.Context) ([]models.HospitalDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HospitalDetails), args.Error(1)
}

func (m *RepoMock) GetHospital(ctx context.Context, id string) (*models.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hospital), args.Error(1)
}

func (m *RepoMock) GetHospitalCounts(ctx context.Context, id string) (models.HospitalCounts, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.HospitalCounts), args.Error(1)
}

func (m *RepoMock) HospitalEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) UpdateHospital(ctx context.Context, id string, in models.HospitalInput) (*models.Hospital, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hospital), args.Error(1)
}

func (m *RepoMock) CountHospitals(ctx context.Context, onlyActive bool) (int, error) {
	args := m.Called(ctx, onlyActive)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CountSubscriptions(ctx context.Context, onlyActive bool) (int, error) {
	args := m.Called(ctx, onlyActive)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CountActivePlans(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newService(repo *RepoMock) *tenant.Service {
	return tenant.New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

func principal(role models.Role, hospital *string) *models.Principal {
	return &models.Principal{ID: "u1", Role: role, HospitalID: hospital}
}

func TestService_ListHospitals(t *testing.T) {
	ctx := context.Background()
	repo := &RepoMock{}
	repo.On("ListHospitals", ctx).Return([]models.HospitalDetails{
		{Hospital: models.Hospital{ID: "h2"}},
		{Hospital: models.Hospital{ID: "h1"}, Count: models.HospitalCounts{Users: 3, Patients: 7}},
	}, nil).Once()

	got, err := newService(repo).ListHospitals(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "h2", got[0].ID)
	assert.Equal(t, 7, got[1].Count.Patients)
}

func TestService_HospitalProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("GetHospital", ctx, hospitalID).Return(&models.Hospital{ID: hospitalID, Name: "City"}, nil).Once()
		repo.On("GetHospitalCounts", ctx, hospitalID).Return(models.HospitalCounts{Users: 4, Patients: 10}, nil).Once()

		got, err := newService(repo).HospitalProfile(ctx, principal(models.RoleDoctor, strPtr(hospitalID)))
		require.NoError(t, err)
		assert.Equal(t, "City", got.Name)
		assert.Equal(t, models.HospitalCounts{Users: 4, Patients: 10}, got.Count)
		repo.AssertExpectations(t)
	})

	t.Run("no hospital bound", func(t *testing.T) {
		repo := &RepoMock{}
		_, err := newService(repo).HospitalProfile(ctx, principal(models.RoleAdmin, nil))
		require.Error(t, err)
		appErr := apperr.From(err)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		assert.Equal(t, tenant.MsgHospitalNotFound, appErr.Message)
	})

	t.Run("hospital row missing", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("GetHospital", ctx, hospitalID).
			Return(nil, fmt.Errorf("storage.GetHospital: %w", sql.ErrNoRows)).Once()

		_, err := newService(repo).HospitalProfile(ctx, principal(models.RoleAdmin, strPtr(hospitalID)))
		assert.Equal(t, tenant.MsgHospitalNotFound, apperr.From(err).Message)
	})
}

func TestService_UpdateHospitalProfile(t *testing.T) {
	ctx := context.Background()
	in := models.HospitalInput{City: strPtr("Pune"), Email: strPtr("desk@city.com")}

	t.Run("success", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("HospitalEmailExists", ctx, "desk@city.com", hospitalID).Return(false, nil).Once()
		repo.On("UpdateHospital", ctx, hospitalID, in).
			Return(&models.Hospital{ID: hospitalID, City: strPtr("Pune")}, nil).Once()

		got, err := newService(repo).UpdateHospitalProfile(ctx, principal(models.RoleAdmin, strPtr(hospitalID)), in)
		require.NoError(t, err)
		assert.Equal(t, "Pune", *got.City)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name      string
		principal *models.Principal
		input     models.HospitalInput
		setup     func(r *RepoMock)
		wantKind  apperr.Kind
	}{
		{
			name:      "doctor forbidden",
			principal: principal(models.RoleDoctor, strPtr(hospitalID)),
			input:     in,
			wantKind:  apperr.KindForbidden,
		},
		{
			name:      "admin without hospital",
			principal: principal(models.RoleAdmin, nil),
			input:     in,
			wantKind:  apperr.KindNotFound,
		},
		{
			name:      "empty name",
			principal: principal(models.RoleAdmin, strPtr(hospitalID)),
			input:     models.HospitalInput{Name: strPtr("")},
			wantKind:  apperr.KindBadRequest,
		},
		{
			name:      "email taken",
			principal: principal(models.RoleAdmin, strPtr(hospitalID)),
			input:     in,
			setup: func(r *RepoMock) {
				r.On("HospitalEmailExists", ctx, "desk@city.com", hospitalID).Return(true, nil).Once()
			},
			wantKind: apperr.KindConflict,
		},
		{
			name:      "email taken concurrently",
			principal: principal(models.RoleAdmin, strPtr(hospitalID)),
			input:     in,
			setup: func(r *RepoMock) {
				r.On("HospitalEmailExists", ctx, "desk@city.com", hospitalID).Return(false, nil).Once()
				r.On("UpdateHospital", ctx, hospitalID, in).
					Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "hospitals_email_key"}).Once()
			},
			wantKind: apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			if tt.setup != nil {
				tt.setup(repo)
			}
			_, err := newService(repo).UpdateHospitalProfile(ctx, tt.principal, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			repo.AssertExpectations(t)
		})
	}
}

func TestService_DashboardStats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("CountHospitals", mock.Anything, false).Return(5, nil).Once()
		repo.On("CountHospitals", mock.Anything, true).Return(4, nil).Once()
		repo.On("CountSubscriptions", mock.Anything, false).Return(5, nil).Once()
		repo.On("CountSubscriptions", mock.Anything, true).Return(3, nil).Once()
		repo.On("CountActivePlans", mock.Anything).Return(3, nil).Once()

		stats, err := newService(repo).DashboardStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.DashboardStats{
			TotalHospitals:      5,
			ActiveHospitals:     4,
			TotalSubscriptions:  5,
			ActiveSubscriptions: 3,
			TotalPlans:          3,
		}, *stats)
		repo.AssertExpectations(t)
	})

	t.Run("one failing count fails the whole request", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("CountHospitals", mock.Anything, mock.Anything).Return(1, nil).Maybe()
		repo.On("CountSubscriptions", mock.Anything, mock.Anything).Return(1, nil).Maybe()
		repo.On("CountActivePlans", mock.Anything).Return(0, errors.New("db down")).Once()

		stats, err := newService(repo).DashboardStats(context.Background())
		require.Error(t, err)
		assert.Nil(t, stats)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}
