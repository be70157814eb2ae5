package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

func item(name string, qty, price, discount string) LineItem {
	return LineItem{
		ProductName: name,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
		Discount:    decimal.RequireFromString(discount),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		taxRate  string
		subtotal string
		tax      string
		total    string
	}{
		{
			name: "itens simples sem imposto",
			items: []LineItem{
				item("Produto A", "5", "100", "0"),
				item("Produto B", "2.5", "200", "0"),
			},
			taxRate:  "0",
			subtotal: "1000",
			tax:      "0",
			total:    "1000",
		},
		{
			name: "desconto percentual por item",
			items: []LineItem{
				item("Produto A", "10", "100", "12.5"),
			},
			taxRate:  "0",
			subtotal: "875",
			tax:      "0",
			total:    "875",
		},
		{
			name: "imposto sobre o subtotal",
			items: []LineItem{
				item("Produto A", "1", "100", "0"),
			},
			taxRate:  "7",
			subtotal: "100",
			tax:      "7",
			total:    "107",
		},
		{
			name:     "lista vazia",
			items:    nil,
			taxRate:  "10",
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
		{
			name: "quantidade fracionária",
			items: []LineItem{
				item("Produto A", "0.5", "3.99", "0"),
			},
			taxRate:  "0",
			subtotal: "2.00",
			tax:      "0",
			total:    "2.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Calculate(tt.items, decimal.RequireFromString(tt.taxRate))
			require.NoError(t, err)
			assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)), "subtotal: esperado %s, obtido %s", tt.subtotal, totals.Subtotal)
			assert.True(t, totals.Tax.Equal(decimal.RequireFromString(tt.tax)), "tax: esperado %s, obtido %s", tt.tax, totals.Tax)
			assert.True(t, totals.Total.Equal(decimal.RequireFromString(tt.total)), "total: esperado %s, obtido %s", tt.total, totals.Total)
		})
	}
}

func TestCalculateArredondaUmaVezSo(t *testing.T) {
	// Dois itens de 1.005: arredondar item a item daria 1.01 + 1.01 = 2.02;
	// o arredondamento único sobre a soma dá 2.01
	items := []LineItem{
		item("Produto A", "1", "1.005", "0"),
		item("Produto B", "1", "1.005", "0"),
	}

	totals, err := Calculate(items, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("2.01")), "obtido %s", totals.Subtotal)
}

func TestCalculateValidacao(t *testing.T) {
	tests := []struct {
		name    string
		items   []LineItem
		taxRate string
	}{
		{"nome vazio", []LineItem{item("", "1", "10", "0")}, "0"},
		{"quantidade negativa", []LineItem{item("Produto A", "-1", "10", "0")}, "0"},
		{"preço negativo", []LineItem{item("Produto A", "1", "-10", "0")}, "0"},
		{"desconto negativo", []LineItem{item("Produto A", "1", "10", "-5")}, "0"},
		{"desconto acima de 100", []LineItem{item("Produto A", "1", "10", "101")}, "0"},
		{"alíquota negativa", []LineItem{item("Produto A", "1", "10", "0")}, "-1"},
		{"alíquota acima de 100", []LineItem{item("Produto A", "1", "10", "0")}, "101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.items, decimal.RequireFromString(tt.taxRate))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestWithTotals(t *testing.T) {
	items := []LineItem{
		item("Produto A", "3", "10.333", "0"),
		item("Produto B", "2", "50", "10"),
	}

	result := WithTotals(items)
	require.Len(t, result, 2)
	assert.True(t, result[0].Total.Equal(decimal.RequireFromString("31.00")), "obtido %s", result[0].Total)
	assert.True(t, result[1].Total.Equal(decimal.RequireFromString("90.00")), "obtido %s", result[1].Total)

	// O slice original não é alterado
	assert.True(t, items[0].Total.IsZero())
}
