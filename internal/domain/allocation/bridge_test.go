package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func items(total int64) []pricing.LineItem {
	return []pricing.LineItem{
		{
			ProductName: "Produto A",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(total),
			Discount:    decimal.Zero,
		},
	}
}

func newTestInvoice(t *testing.T, tenantID string, total int64) *invoice.Invoice {
	t.Helper()
	now := time.Now().UTC()
	inv, err := invoice.NewInvoice(tenantID, "user-1", "INV-000001", "company-1", "", now, now.AddDate(0, 0, 30), items(total), decimal.Zero, "")
	require.NoError(t, err)
	return inv
}

func newTestOrder(t *testing.T, tenantID string, total int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(tenantID, "user-1", "SO-000001", "company-1", "", items(total), decimal.Zero, "")
	require.NoError(t, err)
	return o
}

func TestBridgeAllocate(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-1", 80)

	alloc, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(50), "user-1")
	require.NoError(t, err)

	assert.Equal(t, inv.ID, alloc.InvoiceID)
	assert.Equal(t, ord.ID, alloc.OrderID)
	assert.True(t, alloc.AmountAllocated.Equal(decimal.NewFromInt(50)))
	assert.True(t, ord.InvoicedAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, ord.RemainingAmount.Equal(decimal.NewFromInt(30)))
}

func TestBridgeAllocateTetoDaFatura(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-1", 500)

	// 70 já alocados em outros pedidos; 40 estouraria o total da fatura
	_, err := bridge.Allocate(inv, ord, decimal.NewFromInt(70), decimal.NewFromInt(40), "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	// Falha sem efeito colateral sobre o pedido
	assert.True(t, ord.InvoicedAmount.IsZero())
}

func TestBridgeAllocateTetoDoPedido(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 500)
	ord := newTestOrder(t, "tenant-1", 80)

	_, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(90), "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.True(t, ord.InvoicedAmount.IsZero())
}

func TestBridgeAllocateTenantDivergente(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-2", 100)

	_, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(10), "user-1")
	require.Error(t, err)
	// Divergência de tenant é reportada como não encontrado
	assert.True(t, domain.IsNotFound(err))
}

func TestBridgeAllocateFaturaCancelada(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	require.NoError(t, inv.Cancel("user-1", decimal.Zero))
	ord := newTestOrder(t, "tenant-1", 100)

	_, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(10), "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestBridgeAllocateValorInvalido(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-1", 100)

	_, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.Zero, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestBridgeDeallocate(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-1", 100)

	alloc, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(60), "user-1")
	require.NoError(t, err)

	require.NoError(t, bridge.Deallocate(ord, alloc, "user-1"))

	// A desalocação devolve o valor ao saldo restante
	assert.True(t, ord.InvoicedAmount.IsZero())
	assert.True(t, ord.RemainingAmount.Equal(ord.Total))
}

func TestBridgeDeallocatePedidoErrado(t *testing.T) {
	bridge := NewBridge()
	inv := newTestInvoice(t, "tenant-1", 100)
	ord := newTestOrder(t, "tenant-1", 100)
	other := newTestOrder(t, "tenant-1", 100)

	alloc, err := bridge.Allocate(inv, ord, decimal.Zero, decimal.NewFromInt(60), "user-1")
	require.NoError(t, err)

	err = bridge.Deallocate(other, alloc, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestNewAllocationValidacao(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*Allocation, error)
	}{
		{"sem tenant", func() (*Allocation, error) {
			return NewAllocation("", "inv-1", "ord-1", decimal.NewFromInt(10))
		}},
		{"sem fatura", func() (*Allocation, error) {
			return NewAllocation("tenant-1", "", "ord-1", decimal.NewFromInt(10))
		}},
		{"sem pedido", func() (*Allocation, error) {
			return NewAllocation("tenant-1", "inv-1", "", decimal.NewFromInt(10))
		}},
		{"valor zero", func() (*Allocation, error) {
			return NewAllocation("tenant-1", "inv-1", "ord-1", decimal.Zero)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}
