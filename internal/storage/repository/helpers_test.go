package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adarsh1278/HSass-backend/internal/migrations"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))
	require.NoError(t, CheckDatabaseReady(storage))

	return storage
}

// testDataFactory создаёт тестовые данные напрямую через SQL.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(storage *Storage) *testDataFactory {
	return &testDataFactory{storage: storage}
}

func (f *testDataFactory) createPlan(t *testing.T, name string, price float64, status models.PlanStatus) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO subscription_plans (name, price, status)
		VALUES ($1, $2, $3) RETURNING id`, name, price, string(status)).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.storage.CreateAdmin(context.Background(), models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func (f *testDataFactory) stagedAdmin(t *testing.T, email, planID string) *models.User {
	t.Helper()
	u := f.createAdmin(t, email)
	ok, err := f.storage.StagePlan(context.Background(), u.ID, planID)
	require.NoError(t, err)
	require.True(t, ok)
	return u
}

func (f *testDataFactory) createPatient(t *testing.T, hospitalID string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO patients (hospital_id) VALUES ($1)`, hospitalID)
	require.NoError(t, err)
}

func (f *testDataFactory) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func strPtr(s string) *string { return &s }
