package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func TestNewPayment(t *testing.T) {
	paymentDate := time.Now().UTC().AddDate(0, 0, -1)
	p, err := NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(100), MethodPix, paymentDate, "ref-1", "txn-1")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, MethodPix, p.Method)
	assert.Equal(t, paymentDate, p.PaymentDate)
	assert.Equal(t, "ref-1", p.Reference)
	assert.Equal(t, "txn-1", p.TransactionID)
}

func TestNewPaymentDataPadrao(t *testing.T) {
	p, err := NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(100), MethodCash, time.Time{}, "", "")
	require.NoError(t, err)
	assert.False(t, p.PaymentDate.IsZero())
}

func TestNewPaymentValidacao(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		fn   func() (*Payment, error)
	}{
		{"sem tenant", func() (*Payment, error) {
			return NewPayment("", "user-1", "inv-1", decimal.NewFromInt(100), MethodCash, now, "", "")
		}},
		{"sem fatura", func() (*Payment, error) {
			return NewPayment("tenant-1", "user-1", "", decimal.NewFromInt(100), MethodCash, now, "", "")
		}},
		{"valor zero", func() (*Payment, error) {
			return NewPayment("tenant-1", "user-1", "inv-1", decimal.Zero, MethodCash, now, "", "")
		}},
		{"valor negativo", func() (*Payment, error) {
			return NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(-10), MethodCash, now, "", "")
		}},
		{"forma de pagamento inválida", func() (*Payment, error) {
			return NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(100), Method("voucher"), now, "", "")
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

func TestRefund(t *testing.T) {
	p, err := NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(100), MethodCreditCard, time.Now().UTC(), "", "")
	require.NoError(t, err)

	require.NoError(t, p.Refund())
	assert.Equal(t, StatusRefunded, p.Status)

	// Estorno não é repetível
	err = p.Refund()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestEnsureDeletable(t *testing.T) {
	p, err := NewPayment("tenant-1", "user-1", "inv-1", decimal.NewFromInt(100), MethodCash, time.Now().UTC(), "", "")
	require.NoError(t, err)

	require.NoError(t, p.EnsureDeletable())

	require.NoError(t, p.Refund())
	err = p.EnsureDeletable()
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
}
