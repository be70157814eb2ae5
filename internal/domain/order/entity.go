package order

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
const AggregateType = "order"

// Tipos de evento do pedido
const (
	EventCreated           = "order.created"
	EventStatusChanged     = "order.status_changed"
	EventAllocationApplied = "order.allocation_applied"
	EventAllocationRemoved = "order.allocation_removed"
)

// Status representa o estado do pedido
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// transitions define as transições de status permitidas. Cancelamento e
// reembolso são terminais
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// Order representa um pedido de venda. É um agregado versionado: toda
// mutação acontece por eventos. InvoicedAmount e RemainingAmount são
// derivados da ponte de alocação fatura↔pedido e nunca escritos diretamente
type Order struct {
	event.AggregateRoot
	OrderNumber     string             `json:"order_number"`
	CompanyID       string             `json:"company_id"`
	QuoteID         string             `json:"quote_id,omitempty"`
	Status          Status             `json:"status"`
	Items           []pricing.LineItem `json:"items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Tax             decimal.Decimal    `json:"tax"`
	Total           decimal.Decimal    `json:"total"`
	InvoicedAmount  decimal.Decimal    `json:"invoiced_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	Notes           string             `json:"notes"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type createdPayload struct {
	OrderNumber string             `json:"order_number"`
	CompanyID   string             `json:"company_id"`
	QuoteID     string             `json:"quote_id,omitempty"`
	Items       []pricing.LineItem `json:"items"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes"`
}

type statusPayload struct {
	Status Status `json:"status"`
}

type allocationPayload struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewOrder cria um novo pedido pendente
func NewOrder(tenantID, userID, orderNumber, companyID, quoteID string, items []pricing.LineItem, taxRate decimal.Decimal, notes string) (*Order, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if companyID == "" {
		return nil, domain.NewValidation("empresa não informada", map[string]interface{}{"field": "company_id"})
	}
	if orderNumber == "" {
		return nil, domain.NewValidation("número do pedido não informado", map[string]interface{}{"field": "order_number"})
	}

	totals, err := pricing.Calculate(items, taxRate)
	if err != nil {
		return nil, err
	}

	o := &Order{}
	o.ID = uuid.New().String()
	o.TenantID = tenantID

	err = o.Raise(o, AggregateType, EventCreated, userID, createdPayload{
		OrderNumber: orderNumber,
		CompanyID:   companyID,
		QuoteID:     quoteID,
		Items:       pricing.WithTotals(items),
		TaxRate:     taxRate,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// NewFromQuote converte um orçamento aceito em pedido. A conversão é
// permitida exclusivamente a partir do estado aceito
func NewFromQuote(q *quote.Quote, userID, orderNumber string) (*Order, error) {
	if err := q.EnsureConvertible(); err != nil {
		return nil, err
	}
	return NewOrder(q.TenantID, userID, orderNumber, q.CompanyID, q.ID, q.Items, q.TaxRate, q.Notes)
}

// Load reconstrói um pedido a partir do histórico de eventos
func Load(events []event.Event) (*Order, error) {
	o := &Order{}
	if err := o.LoadFromHistory(o, events); err != nil {
		return nil, err
	}
	return o, nil
}

// Apply aplica um evento ao estado do pedido
func (o *Order) Apply(e event.Event) error {
	switch e.Type {
	case EventCreated:
		var p createdPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		o.ID = e.AggregateID
		o.TenantID = e.TenantID
		o.OrderNumber = p.OrderNumber
		o.CompanyID = p.CompanyID
		o.QuoteID = p.QuoteID
		o.Status = StatusPending
		o.Items = p.Items
		o.TaxRate = p.TaxRate
		o.Subtotal = p.Subtotal
		o.Tax = p.Tax
		o.Total = p.Total
		o.InvoicedAmount = decimal.Zero
		o.RemainingAmount = p.Total
		o.Notes = p.Notes
		o.CreatedBy = e.UserID
		o.CreatedAt = e.OccurredAt
		o.UpdatedAt = e.OccurredAt

	case EventStatusChanged:
		var p statusPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		o.Status = p.Status
		o.UpdatedAt = e.OccurredAt

	case EventAllocationApplied:
		var p allocationPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		o.InvoicedAmount = o.InvoicedAmount.Add(p.Amount)
		o.RemainingAmount = o.Total.Sub(o.InvoicedAmount)
		o.UpdatedAt = e.OccurredAt

	case EventAllocationRemoved:
		var p allocationPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		o.InvoicedAmount = o.InvoicedAmount.Sub(p.Amount)
		o.RemainingAmount = o.Total.Sub(o.InvoicedAmount)
		o.UpdatedAt = e.OccurredAt

	default:
		return domain.NewValidation("tipo de evento desconhecido para pedido", map[string]interface{}{"type": e.Type})
	}

	return nil
}

// Transition muda o status do pedido, respeitando o grafo de transições
func (o *Order) Transition(userID string, next Status) error {
	allowed, known := transitions[o.Status]
	if !known {
		return domain.NewValidation("status de pedido desconhecido", map[string]interface{}{"status": o.Status})
	}
	for _, s := range allowed {
		if s == next {
			return o.Raise(o, AggregateType, EventStatusChanged, userID, statusPayload{Status: next})
		}
	}
	return domain.NewBusinessRule("transição de status não permitida", map[string]interface{}{
		"from": o.Status,
		"to":   next,
	})
}

// Cancel cancela o pedido. Estado terminal
func (o *Order) Cancel(userID string) error {
	return o.Transition(userID, StatusCancelled)
}

// ApplyAllocation registra o efeito de uma alocação de fatura sobre os
// saldos derivados do pedido
func (o *Order) ApplyAllocation(userID, invoiceID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidation("valor da alocação deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if o.Status == StatusCancelled || o.Status == StatusRefunded {
		return domain.NewBusinessRule("pedido encerrado não aceita alocações", map[string]interface{}{"status": o.Status})
	}
	if o.InvoicedAmount.Add(amount).GreaterThan(o.Total) {
		return domain.NewBusinessRule("alocação excede o total do pedido", map[string]interface{}{
			"amount":    amount.String(),
			"remaining": o.RemainingAmount.String(),
		})
	}
	return o.Raise(o, AggregateType, EventAllocationApplied, userID, allocationPayload{InvoiceID: invoiceID, Amount: amount})
}

// RemoveAllocation desfaz o efeito de uma alocação sobre os saldos do pedido
func (o *Order) RemoveAllocation(userID, invoiceID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidation("valor da alocação deve ser maior que zero", map[string]interface{}{"field": "amount"})
	}
	if amount.GreaterThan(o.InvoicedAmount) {
		return domain.NewBusinessRule("remoção excede o valor alocado do pedido", map[string]interface{}{
			"amount":    amount.String(),
			"allocated": o.InvoicedAmount.String(),
		})
	}
	return o.Raise(o, AggregateType, EventAllocationRemoved, userID, allocationPayload{InvoiceID: invoiceID, Amount: amount})
}
