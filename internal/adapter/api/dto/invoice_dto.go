package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
)

// InvoiceRequest representa a estrutura de dados para criação de fatura
type InvoiceRequest struct {
	CompanyID string            `json:"company_id" binding:"required"`
	DueDate   time.Time         `json:"due_date" binding:"required"`
	Items     []LineItemRequest `json:"items" binding:"required"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Notes     string            `json:"notes"`
}

// InvoiceItemsRequest representa a estrutura de dados para atualização dos
// itens de uma fatura
type InvoiceItemsRequest struct {
	Items   []LineItemRequest `json:"items" binding:"required"`
	TaxRate decimal.Decimal   `json:"tax_rate"`
}

// InvoiceResponse representa a estrutura de dados de resposta para fatura
type InvoiceResponse struct {
	ID              string             `json:"id"`
	TenantID        string             `json:"tenant_id"`
	InvoiceNumber   string             `json:"invoice_number"`
	CompanyID       string             `json:"company_id"`
	QuoteID         string             `json:"quote_id,omitempty"`
	Status          string             `json:"status"`
	IssueDate       time.Time          `json:"issue_date"`
	DueDate         time.Time          `json:"due_date"`
	Items           []pricing.LineItem `json:"items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Tax             decimal.Decimal    `json:"tax"`
	Total           decimal.Decimal    `json:"total"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	Notes           string             `json:"notes,omitempty"`
	CreatedBy       string             `json:"created_by"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// InvoiceListResponse representa a resposta de listagem de faturas
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ToInvoiceResponse converte um modelo de domínio em uma resposta DTO
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		CompanyID:       inv.CompanyID,
		QuoteID:         inv.QuoteID,
		Status:          string(inv.Status),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Items:           inv.Items,
		TaxRate:         inv.TaxRate,
		Subtotal:        inv.Subtotal,
		Tax:             inv.Tax,
		Total:           inv.Total,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount(),
		Notes:           inv.Notes,
		CreatedBy:       inv.CreatedBy,
		Version:         inv.Version(),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ToInvoiceListResponse converte uma lista de faturas para o formato de resposta
func ToInvoiceListResponse(invoices []*invoice.Invoice, totalCount, page, pageSize int) InvoiceListResponse {
	response := InvoiceListResponse{
		Invoices:   make([]InvoiceResponse, len(invoices)),
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}

	for i, inv := range invoices {
		response.Invoices[i] = ToInvoiceResponse(inv)
	}

	return response
}
