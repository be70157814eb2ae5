package invoice

import (
	"context"
	"time"
)

// Repository define a interface para operações de repositório de faturas
type Repository interface {
	// Save persiste o agregado e seu buffer de eventos; falha com conflito
	// se a versão em banco divergir da versão lida pelo comando
	Save(ctx context.Context, inv *Invoice) error

	// FindByID busca uma fatura pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*Invoice, error)

	// List lista as faturas de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Invoice, error)

	// FindByStatus lista faturas por status
	FindByStatus(ctx context.Context, tenantID string, status Status, limit, offset int) ([]*Invoice, error)

	// FindByCompany lista faturas de uma empresa
	FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*Invoice, error)

	// FindDueBefore lista faturas não pagas com vencimento anterior à data,
	// usado pela rotina de marcação de vencidas
	FindDueBefore(ctx context.Context, tenantID string, due time.Time, limit, offset int) ([]*Invoice, error)

	// CountByTenant conta quantas faturas existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// NextNumber gera o próximo número de fatura do tenant
	NextNumber(ctx context.Context, tenantID string) (string, error)
}
