package invoice

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
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.NewFromInt(100),
			Discount:    decimal.Zero,
		},
	}
}

func newTestInvoice(t *testing.T, dueDate time.Time) *Invoice {
	t.Helper()
	inv, err := NewInvoice("tenant-1", "user-1", "INV-000001", "company-1", "", time.Now().UTC(), dueDate, testItems(), decimal.Zero, "")
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))

	assert.Equal(t, StatusDraft, inv.Status)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)), "obtido %s", inv.Total)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, inv.Version())
}

func TestNewInvoiceValidacao(t *testing.T) {
	issue := time.Now().UTC()

	_, err := NewInvoice("tenant-1", "user-1", "INV-000001", "company-1", "", issue, issue.AddDate(0, 0, -1), testItems(), decimal.Zero, "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = NewInvoice("tenant-1", "user-1", "", "company-1", "", issue, issue.AddDate(0, 0, 30), testItems(), decimal.Zero, "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNewFromQuote(t *testing.T) {
	issue := time.Now().UTC()
	q, err := quote.NewQuote("tenant-1", "user-1", "QT-000001", "company-1", issue, issue.AddDate(0, 0, 30), testItems(), decimal.Zero, "nota")
	require.NoError(t, err)

	// Conversão exige orçamento aceito
	_, err = NewFromQuote(q, "user-1", "INV-000001", issue.AddDate(0, 0, 30))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, q.Send("user-1"))
	require.NoError(t, q.Accept("user-1"))

	inv, err := NewFromQuote(q, "user-1", "INV-000001", issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, q.ID, inv.QuoteID)
	assert.Equal(t, q.CompanyID, inv.CompanyID)
	assert.True(t, inv.Total.Equal(q.Total))
}

func TestRegisterPayment(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))

	require.NoError(t, inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(400)))
	assert.Equal(t, StatusPartial, inv.Status)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(600)))

	require.NoError(t, inv.RegisterPayment("user-1", "pay-2", decimal.NewFromInt(600)))
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount().IsZero())
}

func TestRegisterPaymentSobrepagamento(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))

	versionBefore := inv.Version()
	err := inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(1001))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	// Falha sem efeito colateral
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, versionBefore, inv.Version())
	assert.Equal(t, StatusSent, inv.Status)
}

func TestRegisterPaymentGuardas(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))

	err := inv.RegisterPayment("user-1", "pay-1", decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, inv.Cancel("user-1", decimal.Zero))
	err = inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestReversePayment(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))
	require.NoError(t, inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(1000)))
	assert.Equal(t, StatusPaid, inv.Status)

	require.NoError(t, inv.ReversePayment("user-1", "pay-1", decimal.NewFromInt(1000)))
	assert.True(t, inv.PaidAmount.IsZero())
	// Sem pagamentos e dentro do prazo, o status volta a enviado
	assert.Equal(t, StatusSent, inv.Status)

	// Estorno maior que o pago é rejeitado
	err := inv.ReversePayment("user-1", "pay-1", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestCancelComPagamentos(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))
	require.NoError(t, inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(100)))

	err := inv.Cancel("user-1", decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestCancelComAlocacoes(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))

	// Com alocações ativas em pedidos, o cancelamento é rejeitado
	err := inv.Cancel("user-1", decimal.NewFromInt(300))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.Equal(t, StatusSent, inv.Status)

	require.NoError(t, inv.Cancel("user-1", decimal.Zero))
	assert.Equal(t, StatusCancelled, inv.Status)
}

func TestUpdateItemsComPagamentos(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))

	// Em rascunho e sem pagamentos, edição é permitida
	require.NoError(t, inv.UpdateItems("user-1", testItems(), decimal.NewFromInt(10)))
	assert.True(t, inv.Tax.Equal(decimal.NewFromInt(100)), "obtido %s", inv.Tax)

	require.NoError(t, inv.Send("user-1"))
	err := inv.UpdateItems("user-1", testItems(), decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestRefreshOverdue(t *testing.T) {
	now := time.Now().UTC()
	inv := newTestInvoice(t, now.AddDate(0, 0, 1))
	require.NoError(t, inv.Send("user-1"))

	// Dentro do prazo nada muda
	marked, err := inv.RefreshOverdue("", now)
	require.NoError(t, err)
	assert.False(t, marked)
	assert.Equal(t, StatusSent, inv.Status)

	// Após o vencimento a fatura é marcada uma única vez
	after := now.AddDate(0, 0, 2)
	marked, err = inv.RefreshOverdue("", after)
	require.NoError(t, err)
	assert.True(t, marked)
	assert.Equal(t, StatusOverdue, inv.Status)

	marked, err = inv.RefreshOverdue("", after)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestRefreshOverdueRascunhoNaoDeriva(t *testing.T) {
	now := time.Now().UTC()
	inv := newTestInvoice(t, now.AddDate(0, 0, 1))

	marked, err := inv.RefreshOverdue("", now.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.False(t, marked)
	assert.Equal(t, StatusDraft, inv.Status)
}

func TestDeriveStatus(t *testing.T) {
	due := time.Now().UTC()
	total := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		current  Status
		paid     string
		now      time.Time
		expected Status
	}{
		{"pago integral", StatusSent, "100", due, StatusPaid},
		{"pago parcial", StatusSent, "40", due, StatusPartial},
		{"parcial vence sobre vencida", StatusOverdue, "40", due.AddDate(0, 0, 5), StatusPartial},
		{"sem pagamento vencida", StatusSent, "0", due.AddDate(0, 0, 1), StatusOverdue},
		{"sem pagamento no prazo", StatusSent, "0", due.AddDate(0, 0, -1), StatusSent},
		{"rascunho não deriva", StatusDraft, "0", due.AddDate(0, 0, 10), StatusDraft},
		{"cancelada não deriva", StatusCancelled, "0", due, StatusCancelled},
		{"estorno total volta a enviada", StatusPaid, "0", due.AddDate(0, 0, -1), StatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.current, total, decimal.RequireFromString(tt.paid), due, tt.now)
			assert.Equal(t, tt.expected, got)

			// Idempotência: derivar de novo sobre o resultado não muda nada
			again := DeriveStatus(got, total, decimal.RequireFromString(tt.paid), due, tt.now)
			assert.Equal(t, got, again)
		})
	}
}

func TestInvoiceLoadReconstroiOEstado(t *testing.T) {
	inv := newTestInvoice(t, time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, inv.Send("user-1"))
	require.NoError(t, inv.RegisterPayment("user-1", "pay-1", decimal.NewFromInt(250)))

	rebuilt, err := Load(inv.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, inv.ID, rebuilt.ID)
	assert.Equal(t, inv.Status, rebuilt.Status)
	assert.Equal(t, inv.Version(), rebuilt.Version())
	assert.True(t, inv.PaidAmount.Equal(rebuilt.PaidAmount))
	assert.True(t, inv.Total.Equal(rebuilt.Total))
}
