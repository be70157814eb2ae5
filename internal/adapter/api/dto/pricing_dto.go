package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
)

// LineItemRequest representa um item de linha em requisições de documentos
// de venda. Os valores monetários aceitam número ou string no JSON
type LineItemRequest struct {
	ProductName string          `json:"product_name" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

// ToLineItems converte os itens da requisição para o modelo de domínio
func ToLineItems(items []LineItemRequest) []pricing.LineItem {
	result := make([]pricing.LineItem, len(items))
	for i, item := range items {
		result[i] = pricing.LineItem{
			ProductName: item.ProductName,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
		}
	}
	return result
}
