package stats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

type serviceStub struct {
	stats *models.DashboardStats
	err   error
}

func (s serviceStub) DashboardStats(context.Context) (*models.DashboardStats, error) {
	return s.stats, s.err
}

func TestStatsHandler_ServeHTTP(t *testing.T) {
	svc := serviceStub{stats: &models.DashboardStats{
		TotalHospitals: 4, ActiveHospitals: 3, TotalSubscriptions: 4, ActiveSubscriptions: 2, TotalPlans: 3,
	}}

	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/super-admin/dashboard/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Dashboard stats fetched successfully", resp["message"])
	assert.Equal(t, map[string]any{
		"totalHospitals":      4.0,
		"activeHospitals":     3.0,
		"totalSubscriptions":  4.0,
		"activeSubscriptions": 2.0,
		"totalPlans":          3.0,
	}, resp["data"])
}
