package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Allocation representa uma linha da ponte de reconciliação muitos-para-
// muitos entre faturas e pedidos: um pedido pode ser coberto por várias
// faturas parciais e uma fatura pode cobrir vários pedidos. A soma das
// alocações de um pedido é o seu invoiced_amount
type Allocation struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	InvoiceID       string          `json:"invoice_id"`
	OrderID         string          `json:"order_id"`
	AmountAllocated decimal.Decimal `json:"amount_allocated"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAllocation cria uma nova linha de alocação
func NewAllocation(tenantID, invoiceID, orderID string, amount decimal.Decimal) (*Allocation, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if invoiceID == "" {
		return nil, domain.NewValidation("fatura não informada", map[string]interface{}{"field": "invoice_id"})
	}
	if orderID == "" {
		return nil, domain.NewValidation("pedido não informado", map[string]interface{}{"field": "order_id"})
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidation("valor da alocação deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}

	now := time.Now().UTC()
	return &Allocation{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		InvoiceID:       invoiceID,
		OrderID:         orderID,
		AmountAllocated: amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
