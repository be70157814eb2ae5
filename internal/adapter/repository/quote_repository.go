package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/quote"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrQuoteDuplicateKey = errors.New("orçamento com mesmo número já existe")
)

// QuoteRepository implementa a interface quote.Repository
type QuoteRepository struct {
	db *pgxpool.Pool
}

// NewQuoteRepository cria uma nova instância de QuoteRepository
func NewQuoteRepository(db *pgxpool.Pool) quote.Repository {
	return &QuoteRepository{db: db}
}

// Save implementa quote.Repository.Save. Grava as colunas derivadas e o
// buffer de eventos na mesma transação, com verificação otimista de versão
func (r *QuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	events := q.UncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := q.Version() - len(events)

	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if expectedVersion == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO quotes (
				id, tenant_id, quote_number, company_id, status, issue_date,
				valid_until, items, tax_rate, subtotal, tax, total, notes,
				created_by, version, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
			)`,
			q.ID, q.TenantID, q.QuoteNumber, q.CompanyID, q.Status, q.IssueDate,
			q.ValidUntil, items, q.TaxRate, q.Subtotal, q.Tax, q.Total, q.Notes,
			q.CreatedBy, q.Version(), q.CreatedAt, q.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return ErrQuoteDuplicateKey
			}
			return fmt.Errorf("erro ao criar orçamento: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx,
			`UPDATE quotes SET
				status = $1, items = $2, tax_rate = $3, subtotal = $4, tax = $5,
				total = $6, notes = $7, version = $8, updated_at = $9
			WHERE id = $10 AND tenant_id = $11 AND version = $12`,
			q.Status, items, q.TaxRate, q.Subtotal, q.Tax, q.Total, q.Notes,
			q.Version(), q.UpdatedAt, q.ID, q.TenantID, expectedVersion)
		if err != nil {
			return fmt.Errorf("erro ao atualizar orçamento: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return staleOrMissing(ctx, tx, "quotes", q.TenantID, q.ID, "orçamento não encontrado")
		}
	}

	if err := appendEventsTx(ctx, tx, events); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	q.ClearUncommittedEvents()
	return nil
}

// FindByID implementa quote.Repository.FindByID. O agregado é reconstruído
// pelo replay do histórico completo de eventos
func (r *QuoteRepository) FindByID(ctx context.Context, tenantID, id string) (*quote.Quote, error) {
	events, err := loadAggregateEvents(ctx, r.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.NewNotFound("orçamento não encontrado")
	}

	return quote.Load(events)
}

// List implementa quote.Repository.List
func (r *QuoteRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*quote.Quote, error) {
	rows, err := r.db.Query(ctx,
		quoteSelectColumns+`
		FROM quotes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar orçamentos: %w", err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// FindByStatus implementa quote.Repository.FindByStatus
func (r *QuoteRepository) FindByStatus(ctx context.Context, tenantID string, status quote.Status, limit, offset int) ([]*quote.Quote, error) {
	rows, err := r.db.Query(ctx,
		quoteSelectColumns+`
		FROM quotes
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar orçamentos: %w", err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// FindByCompany implementa quote.Repository.FindByCompany
func (r *QuoteRepository) FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*quote.Quote, error) {
	rows, err := r.db.Query(ctx,
		quoteSelectColumns+`
		FROM quotes
		WHERE tenant_id = $1 AND company_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar orçamentos: %w", err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// CountByTenant implementa quote.Repository.CountByTenant
func (r *QuoteRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM quotes WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar orçamentos: %w", err)
	}

	return count, nil
}

// NextNumber implementa quote.Repository.NextNumber
func (r *QuoteRepository) NextNumber(ctx context.Context, tenantID string) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, "quote", prefixQuote)
}

const quoteSelectColumns = `SELECT
	id, tenant_id, quote_number, company_id, status, issue_date, valid_until,
	items, tax_rate, subtotal, tax, total, notes, created_by, version,
	created_at, updated_at`

// scanQuoteRows processa resultados de consultas que retornam múltiplos orçamentos
func scanQuoteRows(rows pgx.Rows) ([]*quote.Quote, error) {
	quotes := make([]*quote.Quote, 0)

	for rows.Next() {
		var q quote.Quote
		var id, tenantID string
		var version int
		var itemsJSON []byte

		err := rows.Scan(&id, &tenantID, &q.QuoteNumber, &q.CompanyID, &q.Status,
			&q.IssueDate, &q.ValidUntil, &itemsJSON, &q.TaxRate, &q.Subtotal,
			&q.Tax, &q.Total, &q.Notes, &q.CreatedBy, &version, &q.CreatedAt,
			&q.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler orçamento: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &q.Items); err != nil {
			return nil, fmt.Errorf("erro ao converter itens: %w", err)
		}

		q.Restore(id, tenantID, version)
		quotes = append(quotes, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return quotes, nil
}

// staleOrMissing distingue conflito de versão de registro inexistente quando
// um UPDATE com verificação de versão não afeta nenhuma linha
func staleOrMissing(ctx context.Context, q querier, table, tenantID, id, notFoundMsg string) error {
	var exists bool
	err := q.QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND tenant_id = $2)", table),
		id, tenantID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("erro ao verificar existência do registro: %w", err)
	}
	if exists {
		return domain.NewConflict("registro foi modificado por outra operação; recarregue e tente novamente")
	}
	return domain.NewNotFound(notFoundMsg)
}
