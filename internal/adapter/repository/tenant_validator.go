package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantValidatorRepository valida a existência e o estado do tenant a cada
// requisição
type TenantValidatorRepository struct {
	db *pgxpool.Pool
}

// NewTenantValidatorRepository cria uma nova instância de TenantValidatorRepository
func NewTenantValidatorRepository(db *pgxpool.Pool) *TenantValidatorRepository {
	return &TenantValidatorRepository{db: db}
}

// ValidateTenant verifica se o tenant existe e está ativo
func (r *TenantValidatorRepository) ValidateTenant(tenantID string) (bool, error) {
	var active bool
	err := r.db.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1 AND status = 'active')",
		tenantID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("erro ao validar tenant: %w", err)
	}

	return active, nil
}
