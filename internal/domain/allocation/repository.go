package allocation

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/order"
)

// Repository define a interface para operações da ponte de alocação.
// Save e Delete gravam a linha da ponte e o pedido com saldos rederivados
// na mesma transação
type Repository interface {
	// Save insere ou incrementa a linha da ponte e persiste o pedido
	// atualizado atomicamente
	Save(ctx context.Context, alloc *Allocation, ord *order.Order) error

	// Delete remove a linha da ponte e persiste o pedido atualizado
	// atomicamente
	Delete(ctx context.Context, alloc *Allocation, ord *order.Order) error

	// FindByPair busca a linha da ponte de um par fatura/pedido
	FindByPair(ctx context.Context, tenantID, invoiceID, orderID string) (*Allocation, error)

	// ListByOrder lista as alocações de um pedido
	ListByOrder(ctx context.Context, tenantID, orderID string) ([]*Allocation, error)

	// ListByInvoice lista as alocações de uma fatura
	ListByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*Allocation, error)

	// SumByInvoice soma as alocações existentes de uma fatura
	SumByInvoice(ctx context.Context, tenantID, invoiceID string) (decimal.Decimal, error)

	// SumByOrder soma as alocações existentes de um pedido
	SumByOrder(ctx context.Context, tenantID, orderID string) (decimal.Decimal, error)
}
