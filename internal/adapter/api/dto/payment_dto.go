package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/payment"
)

// PaymentRequest representa a estrutura de dados para registro de pagamento
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"payment_method" binding:"required"`
	PaymentDate   time.Time       `json:"payment_date"`
	Reference     string          `json:"reference"`
	TransactionID string          `json:"transaction_id"`
}

// PaymentResponse representa a estrutura de dados de resposta para pagamento
type PaymentResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method"`
	Status        string          `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	Reference     string          `json:"reference,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PaymentListResponse representa a resposta de listagem de pagamentos
type PaymentListResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	TotalCount int               `json:"total_count"`
}

// ToPaymentResponse converte um modelo de domínio em uma resposta DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate,
		Reference:     p.Reference,
		TransactionID: p.TransactionID,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPaymentListResponse converte uma lista de pagamentos para o formato de resposta
func ToPaymentListResponse(payments []*payment.Payment) PaymentListResponse {
	response := PaymentListResponse{
		Payments:   make([]PaymentResponse, len(payments)),
		TotalCount: len(payments),
	}

	for i, p := range payments {
		response.Payments[i] = ToPaymentResponse(p)
	}

	return response
}
