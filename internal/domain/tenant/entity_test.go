package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tn, err := NewTenant("Empresa X", "12345678000190", "contato@empresax.com.br", PlanPro)
	require.NoError(t, err)

	assert.NotEmpty(t, tn.ID)
	assert.Equal(t, PlanPro, tn.Plan)
	assert.Equal(t, StatusActive, tn.Status)
	assert.True(t, tn.IsActive())
}

func TestNewTenantPlanoPadrao(t *testing.T) {
	tn, err := NewTenant("Empresa X", "12345678000190", "", "")
	require.NoError(t, err)
	assert.Equal(t, PlanFree, tn.Plan)
}

func TestNewTenantValidacao(t *testing.T) {
	_, err := NewTenant("", "12345678000190", "", PlanFree)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewTenant("Empresa X", "", "", PlanFree)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestActivateDeactivate(t *testing.T) {
	tn, err := NewTenant("Empresa X", "12345678000190", "", PlanFree)
	require.NoError(t, err)

	tn.Deactivate()
	assert.False(t, tn.IsActive())

	tn.Activate()
	assert.True(t, tn.IsActive())
}
