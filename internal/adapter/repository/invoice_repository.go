package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrInvoiceDuplicateKey = errors.New("fatura com mesmo número já existe")
)

// InvoiceRepository implementa a interface invoice.Repository
type InvoiceRepository struct {
	db *pgxpool.Pool
}

// NewInvoiceRepository cria uma nova instância de InvoiceRepository
func NewInvoiceRepository(db *pgxpool.Pool) invoice.Repository {
	return &InvoiceRepository{db: db}
}

// Save implementa invoice.Repository.Save
func (r *InvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	if len(inv.UncommittedEvents()) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveInvoiceTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	inv.ClearUncommittedEvents()
	return nil
}

// saveInvoiceTx grava a fatura e seu buffer de eventos dentro da transação
// corrente. Compartilhado com o repositório de pagamentos, que precisa
// gravar pagamento e fatura atomicamente. Não limpa o buffer do agregado;
// o chamador limpa após o commit
func saveInvoiceTx(ctx context.Context, tx querier, inv *invoice.Invoice) error {
	events := inv.UncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := inv.Version() - len(events)

	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}

	if expectedVersion == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO invoices (
				id, tenant_id, invoice_number, company_id, quote_id, status,
				issue_date, due_date, items, tax_rate, subtotal, tax, total,
				paid_amount, notes, created_by, version, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19
			)`,
			inv.ID, inv.TenantID, inv.InvoiceNumber, inv.CompanyID,
			nullableString(inv.QuoteID), inv.Status, inv.IssueDate, inv.DueDate,
			items, inv.TaxRate, inv.Subtotal, inv.Tax, inv.Total,
			inv.PaidAmount, inv.Notes, inv.CreatedBy, inv.Version(),
			inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return ErrInvoiceDuplicateKey
			}
			return fmt.Errorf("erro ao criar fatura: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx,
			`UPDATE invoices SET
				status = $1, items = $2, tax_rate = $3, subtotal = $4, tax = $5,
				total = $6, paid_amount = $7, notes = $8, version = $9,
				updated_at = $10
			WHERE id = $11 AND tenant_id = $12 AND version = $13`,
			inv.Status, items, inv.TaxRate, inv.Subtotal, inv.Tax, inv.Total,
			inv.PaidAmount, inv.Notes, inv.Version(), inv.UpdatedAt,
			inv.ID, inv.TenantID, expectedVersion)
		if err != nil {
			return fmt.Errorf("erro ao atualizar fatura: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return staleOrMissing(ctx, tx, "invoices", inv.TenantID, inv.ID, "fatura não encontrada")
		}
	}

	return appendEventsTx(ctx, tx, events)
}

// FindByID implementa invoice.Repository.FindByID
func (r *InvoiceRepository) FindByID(ctx context.Context, tenantID, id string) (*invoice.Invoice, error) {
	events, err := loadAggregateEvents(ctx, r.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.NewNotFound("fatura não encontrada")
	}

	return invoice.Load(events)
}

// List implementa invoice.Repository.List
func (r *InvoiceRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*invoice.Invoice, error) {
	rows, err := r.db.Query(ctx,
		invoiceSelectColumns+`
		FROM invoices
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar faturas: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

// FindByStatus implementa invoice.Repository.FindByStatus
func (r *InvoiceRepository) FindByStatus(ctx context.Context, tenantID string, status invoice.Status, limit, offset int) ([]*invoice.Invoice, error) {
	rows, err := r.db.Query(ctx,
		invoiceSelectColumns+`
		FROM invoices
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar faturas: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

// FindByCompany implementa invoice.Repository.FindByCompany
func (r *InvoiceRepository) FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*invoice.Invoice, error) {
	rows, err := r.db.Query(ctx,
		invoiceSelectColumns+`
		FROM invoices
		WHERE tenant_id = $1 AND company_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar faturas: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

// FindDueBefore implementa invoice.Repository.FindDueBefore. Retorna apenas
// faturas enviadas e sem pagamento, as únicas candidatas à marcação de vencida
func (r *InvoiceRepository) FindDueBefore(ctx context.Context, tenantID string, due time.Time, limit, offset int) ([]*invoice.Invoice, error) {
	rows, err := r.db.Query(ctx,
		invoiceSelectColumns+`
		FROM invoices
		WHERE tenant_id = $1 AND due_date < $2 AND status = $3
		ORDER BY due_date ASC
		LIMIT $4 OFFSET $5`,
		tenantID, due, invoice.StatusSent, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar faturas vencidas: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

// CountByTenant implementa invoice.Repository.CountByTenant
func (r *InvoiceRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar faturas: %w", err)
	}

	return count, nil
}

// NextNumber implementa invoice.Repository.NextNumber
func (r *InvoiceRepository) NextNumber(ctx context.Context, tenantID string) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, "invoice", prefixInvoice)
}

const invoiceSelectColumns = `SELECT
	id, tenant_id, invoice_number, company_id, quote_id, status, issue_date,
	due_date, items, tax_rate, subtotal, tax, total, paid_amount, notes,
	created_by, version, created_at, updated_at`

// scanInvoiceRows processa resultados de consultas que retornam múltiplas faturas
func scanInvoiceRows(rows pgx.Rows) ([]*invoice.Invoice, error) {
	invoices := make([]*invoice.Invoice, 0)

	for rows.Next() {
		var inv invoice.Invoice
		var id, tenantID string
		var quoteID *string
		var version int
		var itemsJSON []byte

		err := rows.Scan(&id, &tenantID, &inv.InvoiceNumber, &inv.CompanyID,
			&quoteID, &inv.Status, &inv.IssueDate, &inv.DueDate, &itemsJSON,
			&inv.TaxRate, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.PaidAmount,
			&inv.Notes, &inv.CreatedBy, &version, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler fatura: %w", err)
		}

		if quoteID != nil {
			inv.QuoteID = *quoteID
		}
		if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
			return nil, fmt.Errorf("erro ao converter itens: %w", err)
		}

		inv.Restore(id, tenantID, version)
		invoices = append(invoices, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return invoices, nil
}
