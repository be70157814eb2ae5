package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/internal/domain/quote"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// AggregateType identifica o agregado no log de eventos
const AggregateType = "invoice"

// Tipos de evento da fatura
const (
	EventCreated         = "invoice.created"
	EventItemsUpdated    = "invoice.items_updated"
	EventSent            = "invoice.sent"
	EventCancelled       = "invoice.cancelled"
	EventPaymentApplied  = "invoice.payment_applied"
	EventPaymentReversed = "invoice.payment_reversed"
	EventMarkedOverdue   = "invoice.marked_overdue"
)

// Status representa o estado da fatura. Uma vez que existam pagamentos,
// o status é derivado do razão de pagamentos e não pode ser definido
// diretamente
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusPartial   Status = "partial"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Invoice representa uma fatura de venda. É um agregado versionado:
// toda mutação acontece por eventos
type Invoice struct {
	event.AggregateRoot
	InvoiceNumber string             `json:"invoice_number"`
	CompanyID     string             `json:"company_id"`
	QuoteID       string             `json:"quote_id,omitempty"`
	Status        Status             `json:"status"`
	IssueDate     time.Time          `json:"issue_date"`
	DueDate       time.Time          `json:"due_date"`
	Items         []pricing.LineItem `json:"items"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type createdPayload struct {
	InvoiceNumber string             `json:"invoice_number"`
	CompanyID     string             `json:"company_id"`
	QuoteID       string             `json:"quote_id,omitempty"`
	IssueDate     time.Time          `json:"issue_date"`
	DueDate       time.Time          `json:"due_date"`
	Items         []pricing.LineItem `json:"items"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Notes         string             `json:"notes"`
}

type itemsUpdatedPayload struct {
	Items    []pricing.LineItem `json:"items"`
	TaxRate  decimal.Decimal    `json:"tax_rate"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
}

type paymentPayload struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    Status          `json:"status"`
}

type statusPayload struct {
	Status Status `json:"status"`
}

// NewInvoice cria uma nova fatura em rascunho
func NewInvoice(tenantID, userID, invoiceNumber, companyID, quoteID string, issueDate, dueDate time.Time, items []pricing.LineItem, taxRate decimal.Decimal, notes string) (*Invoice, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if companyID == "" {
		return nil, domain.NewValidation("empresa não informada", map[string]interface{}{"field": "company_id"})
	}
	if invoiceNumber == "" {
		return nil, domain.NewValidation("número da fatura não informado", map[string]interface{}{"field": "invoice_number"})
	}
	if dueDate.Before(issueDate) {
		return nil, domain.NewValidation("vencimento não pode ser anterior à emissão", map[string]interface{}{"field": "due_date"})
	}

	totals, err := pricing.Calculate(items, taxRate)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{}
	inv.ID = uuid.New().String()
	inv.TenantID = tenantID

	err = inv.Raise(inv, AggregateType, EventCreated, userID, createdPayload{
		InvoiceNumber: invoiceNumber,
		CompanyID:     companyID,
		QuoteID:       quoteID,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Items:         pricing.WithTotals(items),
		TaxRate:       taxRate,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// NewFromQuote converte um orçamento aceito em fatura. A conversão é
// permitida exclusivamente a partir do estado aceito
func NewFromQuote(q *quote.Quote, userID, invoiceNumber string, dueDate time.Time) (*Invoice, error) {
	if err := q.EnsureConvertible(); err != nil {
		return nil, err
	}
	return NewInvoice(q.TenantID, userID, invoiceNumber, q.CompanyID, q.ID, time.Now().UTC(), dueDate, q.Items, q.TaxRate, q.Notes)
}

// Load reconstrói uma fatura a partir do histórico de eventos
func Load(events []event.Event) (*Invoice, error) {
	inv := &Invoice{}
	if err := inv.LoadFromHistory(inv, events); err != nil {
		return nil, err
	}
	return inv, nil
}

// Apply aplica um evento ao estado da fatura
func (inv *Invoice) Apply(e event.Event) error {
	switch e.Type {
	case EventCreated:
		var p createdPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		inv.ID = e.AggregateID
		inv.TenantID = e.TenantID
		inv.InvoiceNumber = p.InvoiceNumber
		inv.CompanyID = p.CompanyID
		inv.QuoteID = p.QuoteID
		inv.Status = StatusDraft
		inv.IssueDate = p.IssueDate
		inv.DueDate = p.DueDate
		inv.Items = p.Items
		inv.TaxRate = p.TaxRate
		inv.Subtotal = p.Subtotal
		inv.Tax = p.Tax
		inv.Total = p.Total
		inv.PaidAmount = decimal.Zero
		inv.Notes = p.Notes
		inv.CreatedBy = e.UserID
		inv.CreatedAt = e.OccurredAt
		inv.UpdatedAt = e.OccurredAt

	case EventItemsUpdated:
		var p itemsUpdatedPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		inv.Items = p.Items
		inv.TaxRate = p.TaxRate
		inv.Subtotal = p.Subtotal
		inv.Tax = p.Tax
		inv.Total = p.Total
		inv.UpdatedAt = e.OccurredAt

	case EventSent:
		inv.Status = StatusSent
		inv.UpdatedAt = e.OccurredAt

	case EventCancelled:
		inv.Status = StatusCancelled
		inv.UpdatedAt = e.OccurredAt

	case EventPaymentApplied:
		var p paymentPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		inv.PaidAmount = inv.PaidAmount.Add(p.Amount)
		inv.Status = p.Status
		inv.UpdatedAt = e.OccurredAt

	case EventPaymentReversed:
		var p paymentPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		inv.PaidAmount = inv.PaidAmount.Sub(p.Amount)
		inv.Status = p.Status
		inv.UpdatedAt = e.OccurredAt

	case EventMarkedOverdue:
		inv.Status = StatusOverdue
		inv.UpdatedAt = e.OccurredAt

	default:
		return domain.NewValidation("tipo de evento desconhecido para fatura", map[string]interface{}{"type": e.Type})
	}

	return nil
}

// UpdateItems substitui os itens e recalcula os totais derivados.
// Permitido somente em rascunho e sem pagamentos registrados
func (inv *Invoice) UpdateItems(userID string, items []pricing.LineItem, taxRate decimal.Decimal) error {
	if inv.Status != StatusDraft {
		return domain.NewBusinessRule("somente faturas em rascunho podem ser editadas", map[string]interface{}{"status": inv.Status})
	}
	if inv.PaidAmount.IsPositive() {
		return domain.NewBusinessRule("fatura com pagamentos não pode ser editada", nil)
	}

	totals, err := pricing.Calculate(items, taxRate)
	if err != nil {
		return err
	}

	return inv.Raise(inv, AggregateType, EventItemsUpdated, userID, itemsUpdatedPayload{
		Items:    pricing.WithTotals(items),
		TaxRate:  taxRate,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	})
}

// Send marca a fatura como enviada ao cliente
func (inv *Invoice) Send(userID string) error {
	if inv.Status != StatusDraft {
		return domain.NewBusinessRule("somente faturas em rascunho podem ser enviadas", map[string]interface{}{"status": inv.Status})
	}
	return inv.Raise(inv, AggregateType, EventSent, userID, statusPayload{Status: StatusSent})
}

// Cancel cancela a fatura. Estado terminal; não permitido com pagamentos
// nem com alocações ativas em pedidos. O valor alocado vem da ponte de
// alocação, fora deste agregado
func (inv *Invoice) Cancel(userID string, allocated decimal.Decimal) error {
	if inv.Status == StatusCancelled {
		return domain.NewBusinessRule("fatura já está cancelada", nil)
	}
	if inv.PaidAmount.IsPositive() {
		return domain.NewBusinessRule("fatura com pagamentos não pode ser cancelada; estorne os pagamentos antes", nil)
	}
	if allocated.IsPositive() {
		return domain.NewBusinessRule("fatura com alocações em pedidos não pode ser cancelada; remova as alocações antes", nil)
	}
	return inv.Raise(inv, AggregateType, EventCancelled, userID, statusPayload{Status: StatusCancelled})
}

// RemainingAmount retorna o valor ainda não pago da fatura
func (inv *Invoice) RemainingAmount() decimal.Decimal {
	return inv.Total.Sub(inv.PaidAmount)
}

// RegisterPayment aplica um pagamento ao saldo da fatura e deriva o novo
// status. Sobrepagamento nunca é aceito nem ajustado silenciosamente
func (inv *Invoice) RegisterPayment(userID, paymentID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidation("valor do pagamento deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if inv.Status == StatusCancelled {
		return domain.NewBusinessRule("fatura cancelada não aceita pagamentos", nil)
	}
	if amount.GreaterThan(inv.RemainingAmount()) {
		return domain.NewBusinessRule("pagamento excede o saldo devedor da fatura", map[string]interface{}{
			"amount":    amount.String(),
			"remaining": inv.RemainingAmount().String(),
		})
	}

	newPaid := inv.PaidAmount.Add(amount)
	return inv.Raise(inv, AggregateType, EventPaymentApplied, userID, paymentPayload{
		PaymentID: paymentID,
		Amount:    amount,
		Status:    DeriveStatus(inv.Status, inv.Total, newPaid, inv.DueDate, time.Now().UTC()),
	})
}

// ReversePayment desfaz o efeito de um pagamento sobre o saldo (estorno ou
// exclusão administrativa) e rederiva o status
func (inv *Invoice) ReversePayment(userID, paymentID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidation("valor do estorno deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if amount.GreaterThan(inv.PaidAmount) {
		return domain.NewBusinessRule("estorno excede o valor pago da fatura", map[string]interface{}{
			"amount": amount.String(),
			"paid":   inv.PaidAmount.String(),
		})
	}

	newPaid := inv.PaidAmount.Sub(amount)
	return inv.Raise(inv, AggregateType, EventPaymentReversed, userID, paymentPayload{
		PaymentID: paymentID,
		Amount:    amount,
		Status:    DeriveStatus(inv.Status, inv.Total, newPaid, inv.DueDate, time.Now().UTC()),
	})
}

// RefreshOverdue marca a fatura como vencida quando não paga após o
// vencimento. Não gera evento quando o status derivado não muda
func (inv *Invoice) RefreshOverdue(userID string, now time.Time) (bool, error) {
	derived := DeriveStatus(inv.Status, inv.Total, inv.PaidAmount, inv.DueDate, now)
	if derived == inv.Status || derived != StatusOverdue {
		return false, nil
	}
	if err := inv.Raise(inv, AggregateType, EventMarkedOverdue, userID, statusPayload{Status: StatusOverdue}); err != nil {
		return false, err
	}
	return true, nil
}

// DeriveStatus deriva o status da fatura a partir de (total, valor pago,
// vencimento). A derivação é idempotente e vence qualquer tentativa de
// definir o status diretamente enquanto existirem pagamentos:
// pago == total ⇒ paid; 0 < pago < total ⇒ partial;
// pago == 0 e vencida ⇒ overdue. Rascunho e cancelada não derivam
func DeriveStatus(current Status, total, paid decimal.Decimal, dueDate time.Time, now time.Time) Status {
	if current == StatusCancelled {
		return StatusCancelled
	}
	if total.IsPositive() && paid.Equal(total) {
		return StatusPaid
	}
	if paid.IsPositive() && paid.LessThan(total) {
		return StatusPartial
	}
	// pago == 0: volta ao estado de emissão ou vence
	if current == StatusDraft {
		return StatusDraft
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	return StatusSent
}
