package payment

import (
	"context"

	"github.com/vendaflow/crm-backend/internal/domain/invoice"
)

// Repository define a interface para operações de repositório de pagamentos.
// Record, Refund e Delete gravam o pagamento e a fatura na mesma transação:
// uma falha em qualquer lado desfaz os dois
type Repository interface {
	// Record persiste um novo pagamento e a fatura atualizada atomicamente
	Record(ctx context.Context, p *Payment, inv *invoice.Invoice) error

	// Refund persiste o estorno do pagamento e a fatura atualizada atomicamente
	Refund(ctx context.Context, p *Payment, inv *invoice.Invoice) error

	// Delete remove o pagamento e persiste a fatura atualizada atomicamente
	Delete(ctx context.Context, paymentID string, inv *invoice.Invoice) error

	// FindByID busca um pagamento pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*Payment, error)

	// ListByInvoice lista os pagamentos de uma fatura
	ListByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*Payment, error)
}
