package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func testItems() []pricing.LineItem {
	return []pricing.LineItem{
		{
			ProductName: "Produto A",
			Quantity:    decimal.NewFromInt(5),
			UnitPrice:   decimal.NewFromInt(100),
			Discount:    decimal.Zero,
		},
		{
			ProductName: "Produto B",
			Quantity:    decimal.RequireFromString("2.5"),
			UnitPrice:   decimal.NewFromInt(200),
			Discount:    decimal.Zero,
		},
	}
}

func newTestQuote(t *testing.T) *Quote {
	t.Helper()
	issue := time.Now().UTC()
	q, err := NewQuote("tenant-1", "user-1", "QT-000001", "company-1", issue, issue.AddDate(0, 0, 30), testItems(), decimal.Zero, "observações")
	require.NoError(t, err)
	return q
}

func TestNewQuote(t *testing.T) {
	q := newTestQuote(t)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "tenant-1", q.TenantID)
	assert.Equal(t, "QT-000001", q.QuoteNumber)
	assert.Equal(t, StatusDraft, q.Status)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(1000)), "obtido %s", q.Subtotal)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(1000)), "obtido %s", q.Total)
	assert.Equal(t, 1, q.Version())
	require.Len(t, q.UncommittedEvents(), 1)
	assert.Equal(t, EventCreated, q.UncommittedEvents()[0].Type)
}

func TestNewQuoteValidacao(t *testing.T) {
	issue := time.Now().UTC()
	valid := issue.AddDate(0, 0, 30)

	tests := []struct {
		name string
		fn   func() (*Quote, error)
	}{
		{"sem tenant", func() (*Quote, error) {
			return NewQuote("", "user-1", "QT-000001", "company-1", issue, valid, testItems(), decimal.Zero, "")
		}},
		{"sem empresa", func() (*Quote, error) {
			return NewQuote("tenant-1", "user-1", "QT-000001", "", issue, valid, testItems(), decimal.Zero, "")
		}},
		{"sem número", func() (*Quote, error) {
			return NewQuote("tenant-1", "user-1", "", "company-1", issue, valid, testItems(), decimal.Zero, "")
		}},
		{"validade anterior à emissão", func() (*Quote, error) {
			return NewQuote("tenant-1", "user-1", "QT-000001", "company-1", issue, issue.AddDate(0, 0, -1), testItems(), decimal.Zero, "")
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

func TestQuoteTransicoes(t *testing.T) {
	q := newTestQuote(t)

	// Aceite exige envio prévio
	err := q.Accept("user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, q.Send("user-1"))
	assert.Equal(t, StatusSent, q.Status)

	// Envio não é repetível
	err = q.Send("user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, q.Accept("user-1"))
	assert.Equal(t, StatusAccepted, q.Status)
	assert.Equal(t, 3, q.Version())

	// Aceito é terminal para rejeição e expiração
	require.Error(t, q.Reject("user-1"))
	require.Error(t, q.Expire("user-1"))
}

func TestQuoteRejectEExpire(t *testing.T) {
	q := newTestQuote(t)
	require.NoError(t, q.Send("user-1"))
	require.NoError(t, q.Reject("user-1"))
	assert.Equal(t, StatusRejected, q.Status)

	q2 := newTestQuote(t)
	require.NoError(t, q2.Send("user-1"))
	require.NoError(t, q2.Expire("user-1"))
	assert.Equal(t, StatusExpired, q2.Status)
}

func TestQuoteUpdateItems(t *testing.T) {
	q := newTestQuote(t)

	newItems := []pricing.LineItem{
		{
			ProductName: "Produto C",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50),
			Discount:    decimal.Zero,
		},
	}
	require.NoError(t, q.UpdateItems("user-1", newItems, decimal.NewFromInt(10)))

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(100)), "obtido %s", q.Subtotal)
	assert.True(t, q.Tax.Equal(decimal.NewFromInt(10)), "obtido %s", q.Tax)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(110)), "obtido %s", q.Total)
	assert.Equal(t, 2, q.Version())

	// Fora do rascunho a edição é bloqueada
	require.NoError(t, q.Send("user-1"))
	err := q.UpdateItems("user-1", newItems, decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestQuoteEnsureConvertible(t *testing.T) {
	q := newTestQuote(t)

	err := q.EnsureConvertible()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, q.Send("user-1"))
	require.Error(t, q.EnsureConvertible())

	require.NoError(t, q.Accept("user-1"))
	require.NoError(t, q.EnsureConvertible())
}

func TestQuoteLoadReconstroiOEstado(t *testing.T) {
	q := newTestQuote(t)
	require.NoError(t, q.UpdateItems("user-1", testItems(), decimal.NewFromInt(5)))
	require.NoError(t, q.Send("user-1"))
	require.NoError(t, q.Accept("user-1"))

	rebuilt, err := Load(q.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, q.ID, rebuilt.ID)
	assert.Equal(t, q.TenantID, rebuilt.TenantID)
	assert.Equal(t, q.QuoteNumber, rebuilt.QuoteNumber)
	assert.Equal(t, q.Status, rebuilt.Status)
	assert.Equal(t, q.Version(), rebuilt.Version())
	assert.True(t, q.Total.Equal(rebuilt.Total))
	assert.Len(t, rebuilt.Items, 2)
	assert.Empty(t, rebuilt.UncommittedEvents())
}
