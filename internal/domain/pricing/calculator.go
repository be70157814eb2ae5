package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

var hundred = decimal.NewFromInt(100)

// LineItem representa um item de linha compartilhado por orçamentos,
// pedidos, faturas e notas de entrega
type LineItem struct {
	ProductName string          `json:"product_name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Totals agrega os valores financeiros derivados de uma lista de itens
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// rawTotal calcula o total do item sem arredondamento:
// quantidade × preço unitário × (1 − desconto/100)
func (i LineItem) rawTotal() decimal.Decimal {
	lineTotal := i.Quantity.Mul(i.UnitPrice)
	discountAmount := lineTotal.Mul(i.Discount).Div(hundred)
	return lineTotal.Sub(discountAmount)
}

// validateItem valida os limites de um item de linha
func validateItem(i LineItem, index int) error {
	details := map[string]interface{}{"item": index}
	if i.ProductName == "" {
		details["field"] = "product_name"
		return domain.NewValidation("nome do produto não pode ser vazio", details)
	}
	if i.Quantity.IsNegative() {
		details["field"] = "quantity"
		return domain.NewValidation("quantidade não pode ser negativa", details)
	}
	if i.UnitPrice.IsNegative() {
		details["field"] = "unit_price"
		return domain.NewValidation("preço unitário não pode ser negativo", details)
	}
	if i.Discount.IsNegative() || i.Discount.GreaterThan(hundred) {
		details["field"] = "discount"
		return domain.NewValidation("desconto deve estar entre 0 e 100", details)
	}
	return nil
}

// Calculate deriva subtotal, imposto e total de uma lista de itens.
// Função pura: toda a aritmética usa decimais de ponto fixo e o
// arredondamento para 2 casas acontece uma única vez, no resultado final,
// nunca item a item
func Calculate(items []LineItem, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Totals{}, domain.NewValidation("alíquota de imposto deve estar entre 0 e 100", map[string]interface{}{"field": "tax_rate"})
	}

	subtotal := decimal.Zero
	for idx, item := range items {
		if err := validateItem(item, idx); err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(item.rawTotal())
	}

	tax := subtotal.Mul(taxRate).Div(hundred)
	total := subtotal.Add(tax)

	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      tax.Round(2),
		Total:    total.Round(2),
	}, nil
}

// WithTotals retorna uma cópia dos itens com o campo Total preenchido,
// arredondado para exibição. O valor exibido por item não participa da
// soma do subtotal, que usa os valores sem arredondamento
func WithTotals(items []LineItem) []LineItem {
	result := make([]LineItem, len(items))
	for idx, item := range items {
		item.Total = item.rawTotal().Round(2)
		result[idx] = item
	}
	return result
}
