package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

func TestStorage_UpsertAndExpireSubscriptions(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := newTestDataFactory(storage)
	ctx := context.Background()

	basic := factory.createPlan(t, "Basic", 29.99, models.PlanActive)
	premium := factory.createPlan(t, "Premium", 99.99, models.PlanActive)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lapsedAdmin := factory.stagedAdmin(t, "lapsed@example.com", basic)
	lapsed, err := storage.ProvisionHospital(ctx, lapsedAdmin.ID,
		models.HospitalInput{Name: strPtr("Lapsed")}, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)

	currentAdmin := factory.stagedAdmin(t, "current@example.com", basic)
	current, err := storage.ProvisionHospital(ctx, currentAdmin.ID,
		models.HospitalInput{Name: strPtr("Current")}, start, start.AddDate(1, 0, 0))
	require.NoError(t, err)

	now := start.AddDate(0, 2, 0)
	expired, err := storage.ExpireSubscriptions(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, lapsed.Hospital.ID, expired[0].HospitalID)
	assert.Equal(t, models.SubscriptionExpired, expired[0].Status)

	again, err := storage.ExpireSubscriptions(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, again)

	active, err := storage.CountSubscriptions(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	renewed, err := storage.UpsertSubscription(ctx, lapsed.Hospital.ID, premium, now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, renewed.Status)
	assert.Equal(t, premium, renewed.PlanID)
	assert.True(t, renewed.StartDate.Equal(start), "renewal keeps the original start date")

	sub, err := storage.GetSubscriptionByHospital(ctx, current.Hospital.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
}
