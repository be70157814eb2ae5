package payment

import (
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
)

// Ledger coordena as mutações cruzadas entre pagamento e fatura. O saldo
// pago e o status da fatura são derivados exclusivamente aqui; a camada de
// persistência apenas grava os dois lados na mesma transação
type Ledger struct{}

// NewLedger cria uma nova instância de Ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record aplica um pagamento concluído ao saldo da fatura. Falha sem
// efeito colateral se o pagamento sobrepagaria a fatura
func (l *Ledger) Record(inv *invoice.Invoice, p *Payment, userID string) error {
	return inv.RegisterPayment(userID, p.ID, p.Amount)
}

// Refund estorna um pagamento concluído e devolve seu valor ao saldo
// devedor da fatura, rederivando o status
func (l *Ledger) Refund(inv *invoice.Invoice, p *Payment, userID string) error {
	if err := p.Refund(); err != nil {
		return err
	}
	return inv.ReversePayment(userID, p.ID, p.Amount)
}

// Delete remove um pagamento concluído do histórico com o mesmo efeito de
// saldo do estorno. Intervenção administrativa; prefira Refund
func (l *Ledger) Delete(inv *invoice.Invoice, p *Payment, userID string) error {
	if err := p.EnsureDeletable(); err != nil {
		return err
	}
	return inv.ReversePayment(userID, p.ID, p.Amount)
}
