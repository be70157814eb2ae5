package deliverynote

import (
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Status representa o estado da nota de entrega
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusReturned  Status = "returned"
)

// ShippingAddress representa o endereço de entrega
type ShippingAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// DeliveryNote representa uma nota de entrega. Seu ciclo de vida é
// independente do da fatura, com acoplamento fraco via InvoiceID
type DeliveryNote struct {
	ID              string             `json:"id"`
	TenantID        string             `json:"tenant_id"`
	DeliveryNumber  string             `json:"delivery_number"`
	CompanyID       string             `json:"company_id"`
	InvoiceID       string             `json:"invoice_id,omitempty"`
	Status          Status             `json:"status"`
	Items           []pricing.LineItem `json:"items"`
	Carrier         string             `json:"carrier,omitempty"`
	TrackingCode    string             `json:"tracking_code,omitempty"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	ShippedAt       *time.Time         `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewDeliveryNote cria uma nova nota de entrega pendente
func NewDeliveryNote(tenantID, userID, deliveryNumber, companyID, invoiceID string, items []pricing.LineItem, address ShippingAddress, carrier, notes string) (*DeliveryNote, error) {
	if tenantID == "" {
		return nil, domain.NewValidation("tenant não informado", map[string]interface{}{"field": "tenant_id"})
	}
	if companyID == "" {
		return nil, domain.NewValidation("empresa não informada", map[string]interface{}{"field": "company_id"})
	}
	if deliveryNumber == "" {
		return nil, domain.NewValidation("número da nota de entrega não informado", map[string]interface{}{"field": "delivery_number"})
	}
	for idx, item := range items {
		if item.Quantity.IsNegative() {
			return nil, domain.NewValidation("quantidade não pode ser negativa", map[string]interface{}{"item": idx, "field": "quantity"})
		}
	}

	now := time.Now().UTC()
	return &DeliveryNote{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		DeliveryNumber:  deliveryNumber,
		CompanyID:       companyID,
		InvoiceID:       invoiceID,
		Status:          StatusPending,
		Items:           pricing.WithTotals(items),
		Carrier:         carrier,
		ShippingAddress: address,
		Notes:           notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Ship marca a nota como em trânsito
func (d *DeliveryNote) Ship(trackingCode string) error {
	if d.Status != StatusPending {
		return domain.NewBusinessRule("somente notas pendentes podem ser despachadas", map[string]interface{}{"status": d.Status})
	}
	now := time.Now().UTC()
	d.Status = StatusInTransit
	d.TrackingCode = trackingCode
	d.ShippedAt = &now
	d.UpdatedAt = now
	return nil
}

// MarkDelivered marca a nota como entregue. Estado terminal
func (d *DeliveryNote) MarkDelivered() error {
	if d.Status != StatusInTransit {
		return domain.NewBusinessRule("somente notas em trânsito podem ser entregues", map[string]interface{}{"status": d.Status})
	}
	now := time.Now().UTC()
	d.Status = StatusDelivered
	d.DeliveredAt = &now
	d.UpdatedAt = now
	return nil
}

// Return marca a nota como devolvida, permitido a partir de qualquer
// estado não terminal
func (d *DeliveryNote) Return() error {
	if d.Status == StatusDelivered || d.Status == StatusReturned {
		return domain.NewBusinessRule("nota em estado terminal não pode ser devolvida", map[string]interface{}{"status": d.Status})
	}
	d.Status = StatusReturned
	d.UpdatedAt = time.Now().UTC()
	return nil
}
