package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// AggregateType identifica o agregado no log de eventos
const AggregateType = "quote"

// Tipos de evento do orçamento
const (
	EventCreated      = "quote.created"
	EventItemsUpdated = "quote.items_updated"
	EventSent         = "quote.sent"
	EventAccepted     = "quote.accepted"
	EventRejected     = "quote.rejected"
	EventExpired      = "quote.expired"
)

// Status representa o estado do orçamento
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Quote representa um orçamento de venda. É um agregado versionado:
// toda mutação acontece por eventos
type Quote struct {
	event.AggregateRoot
	QuoteNumber string             `json:"quote_number"`
	CompanyID   string             `json:"company_id"`
	Status      Status             `json:"status"`
	IssueDate   time.Time          `json:"issue_date"`
	ValidUntil  time.Time          `json:"valid_until"`
	Items       []pricing.LineItem `json:"items"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type createdPayload struct {
	QuoteNumber string             `json:"quote_number"`
	CompanyID   string             `json:"company_id"`
	IssueDate   time.Time          `json:"issue_date"`
	ValidUntil  time.Time          `json:"valid_until"`
	Items       []pricing.LineItem `json:"items"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes"`
}

type itemsUpdatedPayload struct {
	Items    []pricing.LineItem `json:"items"`
	TaxRate  decimal.Decimal    `json:"tax_rate"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
}

type statusPayload struct {
	Status Status `json:"status"`
}

// NewQuote cria um novo orçamento em rascunho
func NewQuote(tenantID, userID, quoteNumber, companyID string, issueDate, validUntil time.Time, items []pricing.LineItem, taxRate decimal.Decimal, notes string) (*Quote, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if companyID == "" {
		return nil, domain.NewValidation("empresa não informada", map[string]interface{}{"field": "company_id"})
	}
	if quoteNumber == "" {
		return nil, domain.NewValidation("número do orçamento não informado", map[string]interface{}{"field": "quote_number"})
	}
	if validUntil.Before(issueDate) {
		return nil, domain.NewValidation("validade não pode ser anterior à emissão", map[string]interface{}{"field": "valid_until"})
	}

	totals, err := pricing.Calculate(items, taxRate)
	if err != nil {
		return nil, err
	}

	q := &Quote{}
	q.ID = uuid.New().String()
	q.TenantID = tenantID

	err = q.Raise(q, AggregateType, EventCreated, userID, createdPayload{
		QuoteNumber: quoteNumber,
		CompanyID:   companyID,
		IssueDate:   issueDate,
		ValidUntil:  validUntil,
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

	return q, nil
}

// Load reconstrói um orçamento a partir do histórico de eventos
func Load(events []event.Event) (*Quote, error) {
	q := &Quote{}
	if err := q.LoadFromHistory(q, events); err != nil {
		return nil, err
	}
	return q, nil
}

// Apply aplica um evento ao estado do orçamento
func (q *Quote) Apply(e event.Event) error {
	switch e.Type {
	case EventCreated:
		var p createdPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		q.ID = e.AggregateID
		q.TenantID = e.TenantID
		q.QuoteNumber = p.QuoteNumber
		q.CompanyID = p.CompanyID
		q.Status = StatusDraft
		q.IssueDate = p.IssueDate
		q.ValidUntil = p.ValidUntil
		q.Items = p.Items
		q.TaxRate = p.TaxRate
		q.Subtotal = p.Subtotal
		q.Tax = p.Tax
		q.Total = p.Total
		q.Notes = p.Notes
		q.CreatedBy = e.UserID
		q.CreatedAt = e.OccurredAt
		q.UpdatedAt = e.OccurredAt

	case EventItemsUpdated:
		var p itemsUpdatedPayload
		if err := e.DecodeData(&p); err != nil {
			return err
		}
		q.Items = p.Items
		q.TaxRate = p.TaxRate
		q.Subtotal = p.Subtotal
		q.Tax = p.Tax
		q.Total = p.Total
		q.UpdatedAt = e.OccurredAt

	case EventSent:
		q.Status = StatusSent
		q.UpdatedAt = e.OccurredAt

	case EventAccepted:
		q.Status = StatusAccepted
		q.UpdatedAt = e.OccurredAt

	case EventRejected:
		q.Status = StatusRejected
		q.UpdatedAt = e.OccurredAt

	case EventExpired:
		q.Status = StatusExpired
		q.UpdatedAt = e.OccurredAt

	default:
		return domain.NewValidation("tipo de evento desconhecido para orçamento", map[string]interface{}{"type": e.Type})
	}

	return nil
}

// UpdateItems substitui os itens e recalcula os totais derivados.
// Permitido somente em rascunho
func (q *Quote) UpdateItems(userID string, items []pricing.LineItem, taxRate decimal.Decimal) error {
	if q.Status != StatusDraft {
		return domain.NewBusinessRule("somente orçamentos em rascunho podem ser editados", map[string]interface{}{"status": q.Status})
	}

	totals, err := pricing.Calculate(items, taxRate)
	if err != nil {
		return err
	}

	return q.Raise(q, AggregateType, EventItemsUpdated, userID, itemsUpdatedPayload{
		Items:    pricing.WithTotals(items),
		TaxRate:  taxRate,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	})
}

// Send marca o orçamento como enviado ao cliente
func (q *Quote) Send(userID string) error {
	if q.Status != StatusDraft {
		return domain.NewBusinessRule("somente orçamentos em rascunho podem ser enviados", map[string]interface{}{"status": q.Status})
	}
	return q.Raise(q, AggregateType, EventSent, userID, statusPayload{Status: StatusSent})
}

// Accept marca o orçamento como aceito pelo cliente
func (q *Quote) Accept(userID string) error {
	if q.Status != StatusSent {
		return domain.NewBusinessRule("somente orçamentos enviados podem ser aceitos", map[string]interface{}{"status": q.Status})
	}
	return q.Raise(q, AggregateType, EventAccepted, userID, statusPayload{Status: StatusAccepted})
}

// Reject marca o orçamento como rejeitado. Estado terminal
func (q *Quote) Reject(userID string) error {
	if q.Status != StatusSent {
		return domain.NewBusinessRule("somente orçamentos enviados podem ser rejeitados", map[string]interface{}{"status": q.Status})
	}
	return q.Raise(q, AggregateType, EventRejected, userID, statusPayload{Status: StatusRejected})
}

// Expire marca o orçamento como expirado. Estado terminal
func (q *Quote) Expire(userID string) error {
	if q.Status != StatusSent {
		return domain.NewBusinessRule("somente orçamentos enviados podem expirar", map[string]interface{}{"status": q.Status})
	}
	return q.Raise(q, AggregateType, EventExpired, userID, statusPayload{Status: StatusExpired})
}

// EnsureConvertible verifica se o orçamento pode ser convertido em pedido
// ou fatura. Aceito é o único estado que permite conversão
func (q *Quote) EnsureConvertible() error {
	if q.Status != StatusAccepted {
		return domain.NewBusinessRule("somente orçamentos aceitos podem ser convertidos", map[string]interface{}{"status": q.Status})
	}
	return nil
}
