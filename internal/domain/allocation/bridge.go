package allocation

import (
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Bridge aplica as regras da ponte fatura↔pedido. As duas guardas de teto
// (total da fatura e total do pedido) falham sem efeito colateral; a camada
// de persistência grava a linha da ponte e o pedido na mesma transação
type Bridge struct{}

// NewBridge cria uma nova instância de Bridge
func NewBridge() *Bridge {
	return &Bridge{}
}

// Allocate valida e aplica uma alocação. invoiceAllocated é a soma das
// alocações já existentes da fatura, calculada pela persistência dentro da
// mesma transação que gravará a linha
func (b *Bridge) Allocate(inv *invoice.Invoice, ord *order.Order, invoiceAllocated, amount decimal.Decimal, userID string) (*Allocation, error) {
	if !amount.IsPositive() {
		return nil, domain.NewValidation("valor da alocação deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if inv.TenantID != ord.TenantID {
		return nil, domain.NewNotFound("pedido não encontrado")
	}
	if inv.Status == invoice.StatusCancelled {
		return nil, domain.NewBusinessRule("fatura cancelada não pode ser alocada", nil)
	}
	if invoiceAllocated.Add(amount).GreaterThan(inv.Total) {
		return nil, domain.NewBusinessRule("alocação excede o total da fatura", map[string]interface{}{
			"amount":    amount.String(),
			"allocated": invoiceAllocated.String(),
			"total":     inv.Total.String(),
		})
	}

	// Guarda do lado do pedido; também deriva invoiced_amount/remaining_amount
	if err := ord.ApplyAllocation(userID, inv.ID, amount); err != nil {
		return nil, err
	}

	return NewAllocation(inv.TenantID, inv.ID, ord.ID, amount)
}

// Deallocate desfaz uma alocação existente (fatura cancelada ou
// reconciliação corrigida), devolvendo o valor ao saldo restante do pedido
func (b *Bridge) Deallocate(ord *order.Order, alloc *Allocation, userID string) error {
	if alloc.OrderID != ord.ID || alloc.TenantID != ord.TenantID {
		return domain.NewNotFound("alocação não encontrada")
	}
	return ord.RemoveAllocation(userID, alloc.InvoiceID, alloc.AmountAllocated)
}
