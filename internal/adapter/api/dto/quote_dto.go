package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/internal/domain/quote"
)

// QuoteRequest representa a estrutura de dados para criação de orçamento
type QuoteRequest struct {
	CompanyID  string            `json:"company_id" binding:"required"`
	ValidUntil time.Time         `json:"valid_until" binding:"required"`
	Items      []LineItemRequest `json:"items" binding:"required"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	Notes      string            `json:"notes"`
}

// QuoteItemsRequest representa a estrutura de dados para atualização dos
// itens de um orçamento
type QuoteItemsRequest struct {
	Items   []LineItemRequest `json:"items" binding:"required"`
	TaxRate decimal.Decimal   `json:"tax_rate"`
}

// QuoteConvertRequest representa os dados para conversão de um orçamento
// aceito em fatura
type QuoteConvertRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// QuoteResponse representa a estrutura de dados de resposta para orçamento
type QuoteResponse struct {
	ID          string             `json:"id"`
	TenantID    string             `json:"tenant_id"`
	QuoteNumber string             `json:"quote_number"`
	CompanyID   string             `json:"company_id"`
	Status      string             `json:"status"`
	IssueDate   time.Time          `json:"issue_date"`
	ValidUntil  time.Time          `json:"valid_until"`
	Items       []pricing.LineItem `json:"items"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes,omitempty"`
	CreatedBy   string             `json:"created_by"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// QuoteListResponse representa a resposta de listagem de orçamentos
type QuoteListResponse struct {
	Quotes     []QuoteResponse `json:"quotes"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ToQuoteResponse converte um modelo de domínio em uma resposta DTO
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		TenantID:    q.TenantID,
		QuoteNumber: q.QuoteNumber,
		CompanyID:   q.CompanyID,
		Status:      string(q.Status),
		IssueDate:   q.IssueDate,
		ValidUntil:  q.ValidUntil,
		Items:       q.Items,
		TaxRate:     q.TaxRate,
		Subtotal:    q.Subtotal,
		Tax:         q.Tax,
		Total:       q.Total,
		Notes:       q.Notes,
		CreatedBy:   q.CreatedBy,
		Version:     q.Version(),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ToQuoteListResponse converte uma lista de orçamentos para o formato de resposta
func ToQuoteListResponse(quotes []*quote.Quote, totalCount, page, pageSize int) QuoteListResponse {
	response := QuoteListResponse{
		Quotes:     make([]QuoteResponse, len(quotes)),
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}

	for i, q := range quotes {
		response.Quotes[i] = ToQuoteResponse(q)
	}

	return response
}
