package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("tenant-1", "Maria Silva", "maria@empresa.com.br", "senha-forte-123", RoleManager)
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, RoleManager, u.Role)
	assert.True(t, u.Active)
	// A senha nunca é armazenada em texto puro
	assert.NotEqual(t, "senha-forte-123", u.Password)
}

func TestNewUserPapelPadrao(t *testing.T) {
	u, err := NewUser("tenant-1", "Maria Silva", "maria@empresa.com.br", "senha-forte-123", "")
	require.NoError(t, err)
	assert.Equal(t, RoleSalesperson, u.Role)
}

func TestNewUserValidacao(t *testing.T) {
	_, err := NewUser("tenant-1", "", "maria@empresa.com.br", "senha-forte-123", RoleAdmin)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewUser("tenant-1", "Maria Silva", "", "senha-forte-123", RoleAdmin)
	assert.ErrorIs(t, err, ErrEmptyEmail)

	_, err = NewUser("tenant-1", "Maria Silva", "maria@empresa.com.br", "curta", RoleAdmin)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCheckPassword(t *testing.T) {
	u, err := NewUser("tenant-1", "Maria Silva", "maria@empresa.com.br", "senha-forte-123", RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, u.CheckPassword("senha-forte-123"))
	assert.ErrorIs(t, u.CheckPassword("senha-errada"), ErrInvalidPassword)
}

func TestDeactivate(t *testing.T) {
	u, err := NewUser("tenant-1", "Maria Silva", "maria@empresa.com.br", "senha-forte-123", RoleAdmin)
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.Active)
}
