package deliverynote

import (
	"context"
)

// Repository define a interface para operações de repositório de notas de entrega
type Repository interface {
	// Create cria uma nova nota de entrega
	Create(ctx context.Context, d *DeliveryNote) error

	// Update atualiza uma nota de entrega existente
	Update(ctx context.Context, d *DeliveryNote) error

	// FindByID busca uma nota de entrega pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*DeliveryNote, error)

	// List lista as notas de entrega de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*DeliveryNote, error)

	// FindByStatus lista notas de entrega por status
	FindByStatus(ctx context.Context, tenantID string, status Status, limit, offset int) ([]*DeliveryNote, error)

	// FindByInvoice lista notas de entrega vinculadas a uma fatura
	FindByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*DeliveryNote, error)

	// CountByTenant conta quantas notas de entrega existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// NextNumber gera o próximo número de nota de entrega do tenant
	NextNumber(ctx context.Context, tenantID string) (string, error)
}
