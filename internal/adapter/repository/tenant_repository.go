package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/tenant"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrTenantDuplicateKey = errors.New("tenant com mesmo documento já existe")
)

// TenantRepository implementa a interface tenant.Repository
type TenantRepository struct {
	db *pgxpool.Pool
}

// NewTenantRepository cria uma nova instância de TenantRepository
func NewTenantRepository(db *pgxpool.Pool) tenant.Repository {
	return &TenantRepository{db: db}
}

// Create implementa tenant.Repository.Create
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tenants (
			id, name, document, email, plan, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Document, nullableString(t.Email), t.Plan, t.Status,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrTenantDuplicateKey
		}
		return fmt.Errorf("erro ao criar tenant: %w", err)
	}

	return nil
}

// FindByID implementa tenant.Repository.FindByID
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := r.db.QueryRow(ctx,
		tenantSelectColumns+`
		FROM tenants
		WHERE id = $1`,
		id)

	t, err := scanTenantRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("tenant não encontrado")
		}
		return nil, fmt.Errorf("erro ao buscar tenant: %w", err)
	}

	return t, nil
}

// FindByDocument implementa tenant.Repository.FindByDocument
func (r *TenantRepository) FindByDocument(ctx context.Context, document string) (*tenant.Tenant, error) {
	row := r.db.QueryRow(ctx,
		tenantSelectColumns+`
		FROM tenants
		WHERE document = $1`,
		document)

	t, err := scanTenantRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("tenant não encontrado")
		}
		return nil, fmt.Errorf("erro ao buscar tenant: %w", err)
	}

	return t, nil
}

// List implementa tenant.Repository.List
func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	rows, err := r.db.Query(ctx,
		tenantSelectColumns+`
		FROM tenants
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*tenant.Tenant, 0)
	for rows.Next() {
		t, err := scanTenantRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return tenants, nil
}

// Update implementa tenant.Repository.Update
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tenants SET
			name = $1, email = $2, plan = $3, status = $4, updated_at = $5
		WHERE id = $6`,
		t.Name, nullableString(t.Email), t.Plan, t.Status, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("tenant não encontrado")
	}

	return nil
}

// UpdateStatus implementa tenant.Repository.UpdateStatus
func (r *TenantRepository) UpdateStatus(ctx context.Context, id string, status tenant.Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE tenants SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("tenant não encontrado")
	}

	return nil
}

// Count implementa tenant.Repository.Count
func (r *TenantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tenants").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar tenants: %w", err)
	}

	return count, nil
}

const tenantSelectColumns = `SELECT
	id, name, document, email, plan, status, created_at, updated_at`

// scanTenantRow converte uma linha em Tenant
func scanTenantRow(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var email *string

	err := row.Scan(&t.ID, &t.Name, &t.Document, &email, &t.Plan, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if email != nil {
		t.Email = *email
	}

	return &t, nil
}
