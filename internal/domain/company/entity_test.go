package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	c, err := NewCompany("tenant-1", "Empresa Cliente", "98765432000109", SourceCustomer)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, SourceCustomer, c.Source)
	assert.Equal(t, StatusActive, c.Status)
	assert.True(t, c.IsActive())
}

func TestNewCompanyOrigemPadrao(t *testing.T) {
	c, err := NewCompany("tenant-1", "Empresa Cliente", "98765432000109", "")
	require.NoError(t, err)
	assert.Equal(t, SourceCustomer, c.Source)
}

func TestNewCompanyValidacao(t *testing.T) {
	_, err := NewCompany("tenant-1", "", "98765432000109", SourceCustomer)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewCompany("tenant-1", "Empresa Cliente", "", SourceCustomer)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestUpdate(t *testing.T) {
	c, err := NewCompany("tenant-1", "Empresa Cliente", "98765432000109", SourceCustomer)
	require.NoError(t, err)

	address := Address{Street: "Av. Paulista", Number: "1000", City: "São Paulo", State: "SP", Country: "Brasil"}
	require.NoError(t, c.Update("Empresa Cliente LTDA", "Cliente", "novo@cliente.com.br", "11999990000", "https://cliente.com.br", address, "obs"))

	assert.Equal(t, "Empresa Cliente LTDA", c.Name)
	assert.Equal(t, "Cliente", c.TradeName)
	assert.Equal(t, address, c.Address)

	assert.ErrorIs(t, c.Update("", "", "", "", "", Address{}, ""), ErrEmptyName)
}

func TestActivateDeactivate(t *testing.T) {
	c, err := NewCompany("tenant-1", "Empresa Cliente", "98765432000109", SourceCustomer)
	require.NoError(t, err)

	c.Deactivate()
	assert.False(t, c.IsActive())

	c.Activate()
	assert.True(t, c.IsActive())
}
