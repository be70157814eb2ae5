package dto

import (
	"time"

	"github.com/vendaflow/crm-backend/internal/domain/deliverynote"
	"github.com/vendaflow/crm-backend/internal/domain/pricing"
)

// DeliveryNoteRequest representa a estrutura de dados para criação de nota de entrega
type DeliveryNoteRequest struct {
	CompanyID       string            `json:"company_id" binding:"required"`
	InvoiceID       string            `json:"invoice_id"`
	Items           []LineItemRequest `json:"items" binding:"required"`
	Carrier         string            `json:"carrier"`
	ShippingAddress AddressRequest    `json:"shipping_address"`
	Notes           string            `json:"notes"`
}

// DeliveryNoteShipRequest representa os dados para despacho da nota de entrega
type DeliveryNoteShipRequest struct {
	TrackingCode string `json:"tracking_code"`
}

// ToShippingAddress converte o endereço da requisição para o modelo de domínio
func (a AddressRequest) ToShippingAddress() deliverynote.ShippingAddress {
	return deliverynote.ShippingAddress{
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		ZipCode:    a.ZipCode,
		Country:    a.Country,
	}
}

// DeliveryNoteResponse representa a estrutura de dados de resposta para nota de entrega
type DeliveryNoteResponse struct {
	ID              string                       `json:"id"`
	TenantID        string                       `json:"tenant_id"`
	DeliveryNumber  string                       `json:"delivery_number"`
	CompanyID       string                       `json:"company_id"`
	InvoiceID       string                       `json:"invoice_id,omitempty"`
	Status          string                       `json:"status"`
	Items           []pricing.LineItem           `json:"items"`
	Carrier         string                       `json:"carrier,omitempty"`
	TrackingCode    string                       `json:"tracking_code,omitempty"`
	ShippingAddress deliverynote.ShippingAddress `json:"shipping_address"`
	ShippedAt       *time.Time                   `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time                   `json:"delivered_at,omitempty"`
	Notes           string                       `json:"notes,omitempty"`
	CreatedBy       string                       `json:"created_by"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// DeliveryNoteListResponse representa a resposta de listagem de notas de entrega
type DeliveryNoteListResponse struct {
	DeliveryNotes []DeliveryNoteResponse `json:"delivery_notes"`
	TotalCount    int                    `json:"total_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
	TotalPages    int                    `json:"total_pages"`
}

// ToDeliveryNoteResponse converte um modelo de domínio em uma resposta DTO
func ToDeliveryNoteResponse(d *deliverynote.DeliveryNote) DeliveryNoteResponse {
	return DeliveryNoteResponse{
		ID:              d.ID,
		TenantID:        d.TenantID,
		DeliveryNumber:  d.DeliveryNumber,
		CompanyID:       d.CompanyID,
		InvoiceID:       d.InvoiceID,
		Status:          string(d.Status),
		Items:           d.Items,
		Carrier:         d.Carrier,
		TrackingCode:    d.TrackingCode,
		ShippingAddress: d.ShippingAddress,
		ShippedAt:       d.ShippedAt,
		DeliveredAt:     d.DeliveredAt,
		Notes:           d.Notes,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDeliveryNoteListResponse converte uma lista de notas de entrega para o formato de resposta
func ToDeliveryNoteListResponse(notes []*deliverynote.DeliveryNote, totalCount, page, pageSize int) DeliveryNoteListResponse {
	response := DeliveryNoteListResponse{
		DeliveryNotes: make([]DeliveryNoteResponse, len(notes)),
		TotalCount:    totalCount,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    calculateTotalPages(totalCount, pageSize),
	}

	for i, d := range notes {
		response.DeliveryNotes[i] = ToDeliveryNoteResponse(d)
	}

	return response
}
