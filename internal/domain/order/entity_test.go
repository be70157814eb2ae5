package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/internal/domain/quote"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func testItems() []pricing.LineItem {
	return []pricing.LineItem{
		{
			ProductName: "Produto A",
			Quantity:    decimal.NewFromInt(4),
			UnitPrice:   decimal.NewFromInt(25),
			Discount:    decimal.Zero,
		},
	}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("tenant-1", "user-1", "SO-000001", "company-1", "", testItems(), decimal.Zero, "")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)), "obtido %s", o.Total)
	assert.True(t, o.InvoicedAmount.IsZero())
	assert.True(t, o.RemainingAmount.Equal(o.Total))
	assert.Equal(t, 1, o.Version())
}

func TestNewFromQuote(t *testing.T) {
	issue := time.Now().UTC()
	q, err := quote.NewQuote("tenant-1", "user-1", "QT-000001", "company-1", issue, issue.AddDate(0, 0, 30), testItems(), decimal.Zero, "")
	require.NoError(t, err)

	_, err = NewFromQuote(q, "user-1", "SO-000001")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, q.Send("user-1"))
	require.NoError(t, q.Accept("user-1"))

	o, err := NewFromQuote(q, "user-1", "SO-000001")
	require.NoError(t, err)
	assert.Equal(t, q.ID, o.QuoteID)
	assert.True(t, o.Total.Equal(q.Total))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		path    []Status
		wantErr bool
	}{
		{"fluxo completo até reembolso", []Status{StatusProcessing, StatusCompleted, StatusRefunded}, false},
		{"cancelamento a partir de pendente", []Status{StatusCancelled}, false},
		{"cancelamento durante processamento", []Status{StatusProcessing, StatusCancelled}, false},
		{"pular processamento", []Status{StatusCompleted}, true},
		{"reembolso antes de concluir", []Status{StatusProcessing, StatusRefunded}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(t)
			var err error
			for _, next := range tt.path {
				if err = o.Transition("user-1", next); err != nil {
					break
				}
			}
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsBusinessRule(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], o.Status)
			}
		})
	}
}

func TestTransitionEstadosTerminais(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Cancel("user-1"))

	for _, next := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusRefunded} {
		err := o.Transition("user-1", next)
		require.Error(t, err)
		assert.True(t, domain.IsBusinessRule(err))
	}
}

func TestApplyAllocation(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.ApplyAllocation("user-1", "inv-1", decimal.NewFromInt(60)))
	assert.True(t, o.InvoicedAmount.Equal(decimal.NewFromInt(60)))
	assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(40)))

	// Teto do pedido: 60 + 50 > 100
	err := o.ApplyAllocation("user-1", "inv-2", decimal.NewFromInt(50))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.True(t, o.InvoicedAmount.Equal(decimal.NewFromInt(60)))

	require.NoError(t, o.ApplyAllocation("user-1", "inv-2", decimal.NewFromInt(40)))
	assert.True(t, o.RemainingAmount.IsZero())
}

func TestApplyAllocationGuardas(t *testing.T) {
	o := newTestOrder(t)

	err := o.ApplyAllocation("user-1", "inv-1", decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, o.Cancel("user-1"))
	err = o.ApplyAllocation("user-1", "inv-1", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestRemoveAllocation(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.ApplyAllocation("user-1", "inv-1", decimal.NewFromInt(70)))

	require.NoError(t, o.RemoveAllocation("user-1", "inv-1", decimal.NewFromInt(70)))
	assert.True(t, o.InvoicedAmount.IsZero())
	assert.True(t, o.RemainingAmount.Equal(o.Total))

	// Remoção acima do alocado é rejeitada
	err := o.RemoveAllocation("user-1", "inv-1", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestOrderLoadReconstroiOEstado(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition("user-1", StatusProcessing))
	require.NoError(t, o.ApplyAllocation("user-1", "inv-1", decimal.NewFromInt(30)))

	rebuilt, err := Load(o.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, o.ID, rebuilt.ID)
	assert.Equal(t, o.Status, rebuilt.Status)
	assert.Equal(t, o.Version(), rebuilt.Version())
	assert.True(t, o.InvoicedAmount.Equal(rebuilt.InvoicedAmount))
	assert.True(t, o.RemainingAmount.Equal(rebuilt.RemainingAmount))
}
