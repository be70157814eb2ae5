package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Method representa a forma de pagamento
type Method string

const (
	MethodCash         Method = "cash"
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodPix          Method = "pix"
	MethodBankTransfer Method = "bank_transfer"
	MethodCheck        Method = "check"
	MethodOther        Method = "other"
)

// Status representa o estado do pagamento
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

// validMethods lista as formas de pagamento aceitas
var validMethods = map[Method]bool{
	MethodCash:         true,
	MethodCreditCard:   true,
	MethodDebitCard:    true,
	MethodPix:          true,
	MethodBankTransfer: true,
	MethodCheck:        true,
	MethodOther:        true,
}

// Payment representa um pagamento registrado contra uma fatura.
// Pertence à fatura; um estorno é uma transição de estado, nunca um
// pagamento de valor negativo
type Payment struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"payment_method"`
	Status        Status          `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	Reference     string          `json:"reference,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewPayment cria um pagamento concluído contra uma fatura. As guardas de
// saldo (sobrepagamento) pertencem à fatura; aqui validam-se apenas os
// limites do próprio pagamento
func NewPayment(tenantID, userID, invoiceID string, amount decimal.Decimal, method Method, paymentDate time.Time, reference, transactionID string) (*Payment, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if invoiceID == "" {
		return nil, domain.NewValidation("fatura não informada", map[string]interface{}{"field": "invoice_id"})
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidation("valor do pagamento deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if !validMethods[method] {
		return nil, domain.NewValidation("forma de pagamento inválida", map[string]interface{}{"field": "payment_method"})
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	now := time.Now().UTC()
	return &Payment{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		InvoiceID:     invoiceID,
		Amount:        amount,
		Method:        method,
		Status:        StatusCompleted,
		PaymentDate:   paymentDate,
		Reference:     reference,
		TransactionID: transactionID,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Refund transiciona o pagamento para estornado. Válido somente para
// pagamentos concluídos
func (p *Payment) Refund() error {
	if p.Status != StatusCompleted {
		return domain.NewBusinessRule("somente pagamentos concluídos podem ser estornados", map[string]interface{}{"status": p.Status})
	}
	p.Status = StatusRefunded
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// EnsureDeletable verifica se o pagamento pode ser removido do histórico.
// Exclusão é uma intervenção administrativa; para fins de auditoria o
// estorno deve ser preferido
func (p *Payment) EnsureDeletable() error {
	if p.Status != StatusCompleted {
		return domain.NewBusinessRule("somente pagamentos concluídos podem ser excluídos", map[string]interface{}{"status": p.Status})
	}
	return nil
}
