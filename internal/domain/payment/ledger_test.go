package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func newTestInvoice(t *testing.T) *invoice.Invoice {
	t.Helper()
	items := []pricing.LineItem{
		{
			ProductName: "Produto A",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(500),
			Discount:    decimal.Zero,
		},
	}
	now := time.Now().UTC()
	inv, err := invoice.NewInvoice("tenant-1", "user-1", "INV-000001", "company-1", "", now, now.AddDate(0, 0, 30), items, decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, inv.Send("user-1"))
	return inv
}

func newCompletedPayment(t *testing.T, inv *invoice.Invoice, amount int64) *Payment {
	t.Helper()
	p, err := NewPayment(inv.TenantID, "user-1", inv.ID, decimal.NewFromInt(amount), MethodPix, time.Now().UTC(), "", "")
	require.NoError(t, err)
	return p
}

func TestLedgerRecord(t *testing.T) {
	ledger := NewLedger()
	inv := newTestInvoice(t)
	p := newCompletedPayment(t, inv, 200)

	require.NoError(t, ledger.Record(inv, p, "user-1"))

	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, invoice.StatusPartial, inv.Status)
}

func TestLedgerRecordSobrepagamento(t *testing.T) {
	ledger := NewLedger()
	inv := newTestInvoice(t)
	p := newCompletedPayment(t, inv, 501)

	err := ledger.Record(inv, p, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	// Falha sem efeito colateral em nenhum dos lados
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, invoice.StatusSent, inv.Status)
	assert.Equal(t, StatusCompleted, p.Status)
}

func TestLedgerRefund(t *testing.T) {
	ledger := NewLedger()
	inv := newTestInvoice(t)
	p := newCompletedPayment(t, inv, 500)

	require.NoError(t, ledger.Record(inv, p, "user-1"))
	assert.Equal(t, invoice.StatusPaid, inv.Status)

	require.NoError(t, ledger.Refund(inv, p, "user-1"))

	assert.Equal(t, StatusRefunded, p.Status)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, invoice.StatusSent, inv.Status)

	// Um estorno não é repetível
	err := ledger.Refund(inv, p, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestLedgerDelete(t *testing.T) {
	ledger := NewLedger()
	inv := newTestInvoice(t)
	p := newCompletedPayment(t, inv, 300)

	require.NoError(t, ledger.Record(inv, p, "user-1"))
	require.NoError(t, ledger.Delete(inv, p, "user-1"))

	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, invoice.StatusSent, inv.Status)
}

func TestLedgerDeleteEstornado(t *testing.T) {
	ledger := NewLedger()
	inv := newTestInvoice(t)
	p := newCompletedPayment(t, inv, 300)

	require.NoError(t, ledger.Record(inv, p, "user-1"))
	require.NoError(t, ledger.Refund(inv, p, "user-1"))

	err := ledger.Delete(inv, p, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}
