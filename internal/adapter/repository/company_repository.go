package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/company"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrCompanyDuplicateKey = errors.New("empresa com mesmo documento já existe")
)

// CompanyRepository implementa a interface company.Repository
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository cria uma nova instância de CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) company.Repository {
	return &CompanyRepository{db: db}
}

// Create implementa company.Repository.Create
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	address, err := json.Marshal(c.Address)
	if err != nil {
		return fmt.Errorf("erro ao converter endereço para JSON: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO companies (
			id, tenant_id, name, trade_name, document, email, phone, website,
			source, status, address, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.TenantID, c.Name, nullableString(c.TradeName), c.Document,
		nullableString(c.Email), nullableString(c.Phone),
		nullableString(c.Website), c.Source, c.Status, address, c.Notes,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCompanyDuplicateKey
		}
		return fmt.Errorf("erro ao criar empresa: %w", err)
	}

	return nil
}

// FindByID implementa company.Repository.FindByID
func (r *CompanyRepository) FindByID(ctx context.Context, tenantID, id string) (*company.Company, error) {
	row := r.db.QueryRow(ctx,
		companySelectColumns+`
		FROM companies
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)

	c, err := scanCompanyRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("empresa não encontrada")
		}
		return nil, fmt.Errorf("erro ao buscar empresa: %w", err)
	}

	return c, nil
}

// FindByDocument implementa company.Repository.FindByDocument
func (r *CompanyRepository) FindByDocument(ctx context.Context, tenantID, document string) (*company.Company, error) {
	row := r.db.QueryRow(ctx,
		companySelectColumns+`
		FROM companies
		WHERE tenant_id = $1 AND document = $2`,
		tenantID, document)

	c, err := scanCompanyRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("empresa não encontrada")
		}
		return nil, fmt.Errorf("erro ao buscar empresa: %w", err)
	}

	return c, nil
}

// List implementa company.Repository.List
func (r *CompanyRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*company.Company, error) {
	rows, err := r.db.Query(ctx,
		companySelectColumns+`
		FROM companies
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar empresas: %w", err)
	}
	defer rows.Close()

	return collectCompanyRows(rows)
}

// FindByName implementa company.Repository.FindByName
func (r *CompanyRepository) FindByName(ctx context.Context, tenantID, name string, limit, offset int) ([]*company.Company, error) {
	rows, err := r.db.Query(ctx,
		companySelectColumns+`
		FROM companies
		WHERE tenant_id = $1 AND (name ILIKE $2 OR trade_name ILIKE $2)
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`,
		tenantID, "%"+name+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar empresas: %w", err)
	}
	defer rows.Close()

	return collectCompanyRows(rows)
}

// FindBySource implementa company.Repository.FindBySource
func (r *CompanyRepository) FindBySource(ctx context.Context, tenantID string, source company.Source, limit, offset int) ([]*company.Company, error) {
	rows, err := r.db.Query(ctx,
		companySelectColumns+`
		FROM companies
		WHERE tenant_id = $1 AND source = $2
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`,
		tenantID, source, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar empresas: %w", err)
	}
	defer rows.Close()

	return collectCompanyRows(rows)
}

// Update implementa company.Repository.Update
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) error {
	address, err := json.Marshal(c.Address)
	if err != nil {
		return fmt.Errorf("erro ao converter endereço para JSON: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET
			name = $1, trade_name = $2, email = $3, phone = $4, website = $5,
			status = $6, address = $7, notes = $8, updated_at = $9
		WHERE id = $10 AND tenant_id = $11`,
		c.Name, nullableString(c.TradeName), nullableString(c.Email),
		nullableString(c.Phone), nullableString(c.Website), c.Status, address,
		c.Notes, c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar empresa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("empresa não encontrada")
	}

	return nil
}

// UpdateStatus implementa company.Repository.UpdateStatus
func (r *CompanyRepository) UpdateStatus(ctx context.Context, tenantID, id string, status company.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3`,
		status, id, tenantID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status da empresa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("empresa não encontrada")
	}

	return nil
}

// CountByTenant implementa company.Repository.CountByTenant
func (r *CompanyRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM companies WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar empresas: %w", err)
	}

	return count, nil
}

// ExistsByDocument implementa company.Repository.ExistsByDocument
func (r *CompanyRepository) ExistsByDocument(ctx context.Context, tenantID, document string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM companies WHERE tenant_id = $1 AND document = $2)",
		tenantID, document).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar documento: %w", err)
	}

	return exists, nil
}

const companySelectColumns = `SELECT
	id, tenant_id, name, trade_name, document, email, phone, website, source,
	status, address, notes, created_at, updated_at`

// scanCompanyRow converte uma linha em Company
func scanCompanyRow(row pgx.Row) (*company.Company, error) {
	var c company.Company
	var tradeName, email, phone, website *string
	var addressJSON []byte

	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &tradeName, &c.Document,
		&email, &phone, &website, &c.Source, &c.Status, &addressJSON,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if tradeName != nil {
		c.TradeName = *tradeName
	}
	if email != nil {
		c.Email = *email
	}
	if phone != nil {
		c.Phone = *phone
	}
	if website != nil {
		c.Website = *website
	}
	if err := json.Unmarshal(addressJSON, &c.Address); err != nil {
		return nil, fmt.Errorf("erro ao converter endereço: %w", err)
	}

	return &c, nil
}

// collectCompanyRows processa resultados de consultas que retornam
// múltiplas empresas
func collectCompanyRows(rows pgx.Rows) ([]*company.Company, error) {
	companies := make([]*company.Company, 0)

	for rows.Next() {
		c, err := scanCompanyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler empresa: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return companies, nil
}
