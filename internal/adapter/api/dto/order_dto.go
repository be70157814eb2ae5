package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
)

// OrderRequest representa a estrutura de dados para criação de pedido
type OrderRequest struct {
	CompanyID string            `json:"company_id" binding:"required"`
	Items     []LineItemRequest `json:"items" binding:"required"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Notes     string            `json:"notes"`
}

// OrderStatusRequest representa os dados para transição de status do pedido
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse representa a estrutura de dados de resposta para pedido
type OrderResponse struct {
	ID              string             `json:"id"`
	TenantID        string             `json:"tenant_id"`
	OrderNumber     string             `json:"order_number"`
	CompanyID       string             `json:"company_id"`
	QuoteID         string             `json:"quote_id,omitempty"`
	Status          string             `json:"status"`
	Items           []pricing.LineItem `json:"items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Tax             decimal.Decimal    `json:"tax"`
	Total           decimal.Decimal    `json:"total"`
	InvoicedAmount  decimal.Decimal    `json:"invoiced_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	Notes           string             `json:"notes,omitempty"`
	CreatedBy       string             `json:"created_by"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// OrderListResponse representa a resposta de listagem de pedidos
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ToOrderResponse converte um modelo de domínio em uma resposta DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		TenantID:        o.TenantID,
		OrderNumber:     o.OrderNumber,
		CompanyID:       o.CompanyID,
		QuoteID:         o.QuoteID,
		Status:          string(o.Status),
		Items:           o.Items,
		TaxRate:         o.TaxRate,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Total:           o.Total,
		InvoicedAmount:  o.InvoicedAmount,
		RemainingAmount: o.RemainingAmount,
		Notes:           o.Notes,
		CreatedBy:       o.CreatedBy,
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListResponse converte uma lista de pedidos para o formato de resposta
func ToOrderListResponse(orders []*order.Order, totalCount, page, pageSize int) OrderListResponse {
	response := OrderListResponse{
		Orders:     make([]OrderResponse, len(orders)),
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}

	for i, o := range orders {
		response.Orders[i] = ToOrderResponse(o)
	}

	return response
}
