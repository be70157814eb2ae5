package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/allocation"
)

// AllocationRequest representa a estrutura de dados para alocação de uma
// fatura a um pedido
type AllocationRequest struct {
	InvoiceID string          `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// AllocationResponse representa a estrutura de dados de resposta para alocação
type AllocationResponse struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	InvoiceID       string          `json:"invoice_id"`
	OrderID         string          `json:"order_id"`
	AmountAllocated decimal.Decimal `json:"amount_allocated"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AllocationListResponse representa a resposta de listagem de alocações
type AllocationListResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	TotalCount  int                  `json:"total_count"`
}

// ToAllocationResponse converte um modelo de domínio em uma resposta DTO
func ToAllocationResponse(a *allocation.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		InvoiceID:       a.InvoiceID,
		OrderID:         a.OrderID,
		AmountAllocated: a.AmountAllocated,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ToAllocationListResponse converte uma lista de alocações para o formato de resposta
func ToAllocationListResponse(allocations []*allocation.Allocation) AllocationListResponse {
	response := AllocationListResponse{
		Allocations: make([]AllocationResponse, len(allocations)),
		TotalCount:  len(allocations),
	}

	for i, a := range allocations {
		response.Allocations[i] = ToAllocationResponse(a)
	}

	return response
}
