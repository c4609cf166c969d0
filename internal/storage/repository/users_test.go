package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

func TestStorage_CreateAdmin(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	factory := newTestDataFactory(storage)

	created := factory.createAdmin(t, "admin@example.com")
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, models.RoleAdmin, created.Role)

	got, err := storage.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.ProvisioningRegistered, got.ProvisioningStatus)
	assert.Nil(t, got.HospitalID)
	assert.Nil(t, got.Hospital)
	assert.Nil(t, got.StagedPlanID)

	exists, err := storage.UserEmailExists(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = storage.CreateAdmin(ctx, models.User{Name: "Other", Email: "admin@example.com", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, apperr.IsUniqueViolation(err, ""))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestStorage_GetUserNotFound(t *testing.T) {
	storage := setupTestDatabase(t)

	_, err := storage.GetUserByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, sql.ErrNoRows)

	_, err = storage.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStorage_StagePlan(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	factory := newTestDataFactory(storage)

	basic := factory.createPlan(t, "Basic", 29.99, models.PlanActive)
	premium := factory.createPlan(t, "Premium", 99.99, models.PlanActive)
	admin := factory.createAdmin(t, "admin@example.com")

	ok, err := storage.StagePlan(ctx, admin.ID, basic)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = storage.StagePlan(ctx, admin.ID, premium)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := storage.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProvisioningPlanStaged, got.ProvisioningStatus)
	require.NotNil(t, got.StagedPlanID)
	assert.Equal(t, premium, *got.StagedPlanID)

	_, err = storage.ProvisionHospital(ctx, admin.ID, models.HospitalInput{Name: strPtr("City")},
		time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	ok, err = storage.StagePlan(ctx, admin.ID, basic)
	require.NoError(t, err)
	assert.False(t, ok, "staging after provisioning must not change the row")
}

func TestStorage_UpdateLastLogin(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	admin := newTestDataFactory(storage).createAdmin(t, "admin@example.com")

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, storage.UpdateLastLogin(ctx, admin.ID, at))

	got, err := storage.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))
}

func TestStorage_SuperAdmin(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	first, err := storage.EnsureSuperAdmin(ctx, "Super Admin", "superadmin@hospital.com", "hash-1")
	require.NoError(t, err)
	second, err := storage.EnsureSuperAdmin(ctx, "Super Admin", "superadmin@hospital.com", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hash-1", second.PasswordHash, "existing super admin must not be overwritten")

	byID, err := storage.GetSuperAdminByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "superadmin@hospital.com", byID.Email)

	byEmail, err := storage.GetSuperAdminByEmail(ctx, "superadmin@hospital.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)
	assert.True(t, byEmail.IsActive)
}
