package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompanyUserDefaults(t *testing.T) {
	u, err := NewCompanyUser(7, "Jane Doe", "jane@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, uint(7), u.CompanyAccountID)
	assert.Equal(t, COMPANY_ROLE_MEMBER, u.Role)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.IsActive())
}

func TestNewCompanyUserRejectsInvalidInput(t *testing.T) {
	_, err := NewCompanyUser(7, "Jane", "not-an-email", COMPANY_ROLE_ADMIN)
	assert.Error(t, err)

	_, err = NewCompanyUser(7, "Jane", "jane@example.com", "janitor")
	assert.Error(t, err)
}

func TestSubscriptionPlanHelpers(t *testing.T) {
	max := 10
	monthly := &SubscriptionPlan{Period: PlanPeriodMonthly, MaxPersons: &max}
	yearly := &SubscriptionPlan{Period: PlanPeriodYearly}

	assert.True(t, monthly.IsMonthly())
	assert.True(t, monthly.HasSeatLimit())
	assert.False(t, yearly.IsMonthly())
	assert.False(t, yearly.HasSeatLimit())
}
