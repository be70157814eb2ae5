package company

import (
	"context"
)

// Repository define a interface para operações de repositório de empresas
type Repository interface {
	// Create cria uma nova empresa
	Create(ctx context.Context, c *Company) error

	// FindByID busca uma empresa pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*Company, error)

	// FindByDocument busca uma empresa pelo documento
	FindByDocument(ctx context.Context, tenantID, document string) (*Company, error)

	// List lista as empresas de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Company, error)

	// FindByName busca empresas pelo nome
	FindByName(ctx context.Context, tenantID, name string, limit, offset int) ([]*Company, error)

	// FindBySource busca empresas pela origem (conta ou cliente)
	FindBySource(ctx context.Context, tenantID string, source Source, limit, offset int) ([]*Company, error)

	// Update atualiza os dados de uma empresa existente
	Update(ctx context.Context, c *Company) error

	// UpdateStatus atualiza o status de uma empresa
	UpdateStatus(ctx context.Context, tenantID, id string, status Status) error

	// CountByTenant conta quantas empresas existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// ExistsByDocument verifica se uma empresa existe pelo documento
	ExistsByDocument(ctx context.Context, tenantID, document string) (bool, error)
}
