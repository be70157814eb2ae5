package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func TestEnsureInvoiceCeiling(t *testing.T) {
	total := decimal.NewFromInt(100)

	require.NoError(t, ensureInvoiceCeiling(total, decimal.Zero, decimal.NewFromInt(60)))

	// Teto exato é permitido
	require.NoError(t, ensureInvoiceCeiling(total, decimal.NewFromInt(60), decimal.NewFromInt(40)))

	err := ensureInvoiceCeiling(total, decimal.NewFromInt(60), decimal.NewFromInt(50))
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestEnsureInvoiceCeilingSomaDefasada(t *testing.T) {
	// Dois comandos concorrentes leem a mesma soma (zero) antes da
	// transação e ambos passam na checagem de domínio contra o total de
	// 100. A rechecagem sob o lock da fatura vê a soma já gravada pelo
	// primeiro e rejeita o segundo
	total := decimal.NewFromInt(100)
	amount := decimal.NewFromInt(100)

	require.NoError(t, ensureInvoiceCeiling(total, decimal.Zero, amount))

	err := ensureInvoiceCeiling(total, amount, amount)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}
