package order

import (
	"context"
)

// Repository define a interface para operações de repositório de pedidos
type Repository interface {
	// Save persiste o agregado e seu buffer de eventos; falha com conflito
	// se a versão em banco divergir da versão lida pelo comando
	Save(ctx context.Context, o *Order) error

	// FindByID busca um pedido pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*Order, error)

	// List lista os pedidos de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Order, error)

	// FindByStatus lista pedidos por status
	FindByStatus(ctx context.Context, tenantID string, status Status, limit, offset int) ([]*Order, error)

	// FindByCompany lista pedidos de uma empresa
	FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*Order, error)

	// CountByTenant conta quantos pedidos existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// NextNumber gera o próximo número de pedido do tenant
	NextNumber(ctx context.Context, tenantID string) (string, error)
}
