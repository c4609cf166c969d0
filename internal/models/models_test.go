package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Role
		wantErr bool
	}{
		{name: "super admin", in: "SUPERADMIN", want: RoleSuperAdmin},
		{name: "admin", in: "ADMIN", want: RoleAdmin},
		{name: "doctor", in: "DOCTOR", want: RoleDoctor},
		{name: "lower case is rejected", in: "admin", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "unknown", in: "JANITOR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanIsPurchasable(t *testing.T) {
	var nilPlan *Plan
	assert.False(t, nilPlan.IsPurchasable())
	assert.False(t, (&Plan{Status: PlanInactive}).IsPurchasable())
	assert.True(t, (&Plan{Status: PlanActive}).IsPurchasable())
}

func TestSubscriptionWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	start, end := SubscriptionWindow(now, DefaultSubscriptionDays)
	assert.Equal(t, now, start)
	assert.Equal(t, time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC), end)
}

func TestPrincipalHasHospital(t *testing.T) {
	empty := ""
	id := "h-1"
	var p *Principal
	assert.False(t, p.HasHospital())
	assert.False(t, (&Principal{}).HasHospital())
	assert.False(t, (&Principal{HospitalID: &empty}).HasHospital())
	assert.True(t, (&Principal{HospitalID: &id}).HasHospital())
}

func TestInputsEmpty(t *testing.T) {
	name := "x"
	assert.True(t, HospitalInput{}.Empty())
	assert.False(t, HospitalInput{Name: &name}.Empty())
	assert.True(t, PlanUpdate{}.Empty())
	assert.False(t, PlanUpdate{Features: []byte(`{}`)}.Empty())
}
