package deliverynote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func testAddress() ShippingAddress {
	return ShippingAddress{
		Street:   "Rua das Flores",
		Number:   "100",
		District: "Centro",
		City:     "São Paulo",
		State:    "SP",
		ZipCode:  "01000-000",
		Country:  "Brasil",
	}
}

func testItems() []pricing.LineItem {
	return []pricing.LineItem{
		{
			ProductName: "Produto A",
			Quantity:    decimal.NewFromInt(3),
			UnitPrice:   decimal.NewFromInt(10),
			Discount:    decimal.Zero,
		},
	}
}

func newTestNote(t *testing.T) *DeliveryNote {
	t.Helper()
	d, err := NewDeliveryNote("tenant-1", "user-1", "DN-000001", "company-1", "inv-1", testItems(), testAddress(), "Transportadora X", "")
	require.NoError(t, err)
	return d
}

func TestNewDeliveryNote(t *testing.T) {
	d := newTestNote(t)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, "inv-1", d.InvoiceID)
	assert.Equal(t, "Transportadora X", d.Carrier)
	assert.Nil(t, d.ShippedAt)
	assert.Nil(t, d.DeliveredAt)
}

func TestNewDeliveryNoteValidacao(t *testing.T) {
	_, err := NewDeliveryNote("", "user-1", "DN-000001", "company-1", "", testItems(), testAddress(), "", "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = NewDeliveryNote("tenant-1", "user-1", "", "company-1", "", testItems(), testAddress(), "", "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	badItems := []pricing.LineItem{
		{ProductName: "Produto A", Quantity: decimal.NewFromInt(-1), UnitPrice: decimal.NewFromInt(10)},
	}
	_, err = NewDeliveryNote("tenant-1", "user-1", "DN-000001", "company-1", "", badItems, testAddress(), "", "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestShip(t *testing.T) {
	d := newTestNote(t)

	require.NoError(t, d.Ship("BR123456789"))
	assert.Equal(t, StatusInTransit, d.Status)
	assert.Equal(t, "BR123456789", d.TrackingCode)
	require.NotNil(t, d.ShippedAt)

	// Despacho não é repetível
	err := d.Ship("BR987654321")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestMarkDelivered(t *testing.T) {
	d := newTestNote(t)

	// Entrega exige trânsito prévio
	err := d.MarkDelivered()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, d.Ship("BR123456789"))
	require.NoError(t, d.MarkDelivered())
	assert.Equal(t, StatusDelivered, d.Status)
	require.NotNil(t, d.DeliveredAt)
}

func TestReturn(t *testing.T) {
	// Devolução a partir de pendente
	d := newTestNote(t)
	require.NoError(t, d.Return())
	assert.Equal(t, StatusReturned, d.Status)

	// Devolução a partir de trânsito
	d2 := newTestNote(t)
	require.NoError(t, d2.Ship("BR123456789"))
	require.NoError(t, d2.Return())
	assert.Equal(t, StatusReturned, d2.Status)

	// Estados terminais não permitem devolução
	err := d2.Return()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	d3 := newTestNote(t)
	require.NoError(t, d3.Ship("BR123456789"))
	require.NoError(t, d3.MarkDelivered())
	err = d3.Return()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}
