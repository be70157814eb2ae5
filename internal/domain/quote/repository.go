package quote

import (
	"context"
)

// Repository define a interface para operações de repositório de orçamentos.
// Save persiste o estado derivado e os eventos não confirmados em uma única
// transação, com verificação otimista de versão
type Repository interface {
	// Save persiste o agregado e seu buffer de eventos; falha com conflito
	// se a versão em banco divergir da versão lida pelo comando
	Save(ctx context.Context, q *Quote) error

	// FindByID busca um orçamento pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*Quote, error)

	// List lista os orçamentos de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Quote, error)

	// FindByStatus lista orçamentos por status
	FindByStatus(ctx context.Context, tenantID string, status Status, limit, offset int) ([]*Quote, error)

	// FindByCompany lista orçamentos de uma empresa
	FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*Quote, error)

	// CountByTenant conta quantos orçamentos existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// NextNumber gera o próximo número de orçamento do tenant
	NextNumber(ctx context.Context, tenantID string) (string, error)
}
