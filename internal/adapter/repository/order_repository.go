package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrOrderDuplicateKey = errors.New("pedido com mesmo número já existe")
)

// OrderRepository implementa a interface order.Repository
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository cria uma nova instância de OrderRepository
func NewOrderRepository(db *pgxpool.Pool) order.Repository {
	return &OrderRepository{db: db}
}

// Save implementa order.Repository.Save
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if len(o.UncommittedEvents()) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveOrderTx(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	o.ClearUncommittedEvents()
	return nil
}

// saveOrderTx grava o pedido e seu buffer de eventos dentro da transação
// corrente. Compartilhado com o repositório de alocações, que grava a linha
// da ponte e o pedido atomicamente. Não limpa o buffer do agregado;
// o chamador limpa após o commit
func saveOrderTx(ctx context.Context, tx querier, o *order.Order) error {
	events := o.UncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := o.Version() - len(events)

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}

	if expectedVersion == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO orders (
				id, tenant_id, order_number, company_id, quote_id, status,
				items, tax_rate, subtotal, tax, total, invoiced_amount, notes,
				created_by, version, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17
			)`,
			o.ID, o.TenantID, o.OrderNumber, o.CompanyID,
			nullableString(o.QuoteID), o.Status, items, o.TaxRate, o.Subtotal,
			o.Tax, o.Total, o.InvoicedAmount, o.Notes, o.CreatedBy,
			o.Version(), o.CreatedAt, o.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return ErrOrderDuplicateKey
			}
			return fmt.Errorf("erro ao criar pedido: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET
				status = $1, items = $2, tax_rate = $3, subtotal = $4, tax = $5,
				total = $6, invoiced_amount = $7, notes = $8, version = $9,
				updated_at = $10
			WHERE id = $11 AND tenant_id = $12 AND version = $13`,
			o.Status, items, o.TaxRate, o.Subtotal, o.Tax, o.Total,
			o.InvoicedAmount, o.Notes, o.Version(), o.UpdatedAt,
			o.ID, o.TenantID, expectedVersion)
		if err != nil {
			return fmt.Errorf("erro ao atualizar pedido: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return staleOrMissing(ctx, tx, "orders", o.TenantID, o.ID, "pedido não encontrado")
		}
	}

	return appendEventsTx(ctx, tx, events)
}

// FindByID implementa order.Repository.FindByID
func (r *OrderRepository) FindByID(ctx context.Context, tenantID, id string) (*order.Order, error) {
	events, err := loadAggregateEvents(ctx, r.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.NewNotFound("pedido não encontrado")
	}

	return order.Load(events)
}

// List implementa order.Repository.List
func (r *OrderRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx,
		orderSelectColumns+`
		FROM orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// FindByStatus implementa order.Repository.FindByStatus
func (r *OrderRepository) FindByStatus(ctx context.Context, tenantID string, status order.Status, limit, offset int) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx,
		orderSelectColumns+`
		FROM orders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pedidos: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// FindByCompany implementa order.Repository.FindByCompany
func (r *OrderRepository) FindByCompany(ctx context.Context, tenantID, companyID string, limit, offset int) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx,
		orderSelectColumns+`
		FROM orders
		WHERE tenant_id = $1 AND company_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pedidos: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// CountByTenant implementa order.Repository.CountByTenant
func (r *OrderRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar pedidos: %w", err)
	}

	return count, nil
}

// NextNumber implementa order.Repository.NextNumber
func (r *OrderRepository) NextNumber(ctx context.Context, tenantID string) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, "order", prefixOrder)
}

const orderSelectColumns = `SELECT
	id, tenant_id, order_number, company_id, quote_id, status, items,
	tax_rate, subtotal, tax, total, invoiced_amount, notes, created_by,
	version, created_at, updated_at`

// scanOrderRows processa resultados de consultas que retornam múltiplos pedidos
func scanOrderRows(rows pgx.Rows) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)

	for rows.Next() {
		var o order.Order
		var id, tenantID string
		var quoteID *string
		var version int
		var itemsJSON []byte

		err := rows.Scan(&id, &tenantID, &o.OrderNumber, &o.CompanyID,
			&quoteID, &o.Status, &itemsJSON, &o.TaxRate, &o.Subtotal, &o.Tax,
			&o.Total, &o.InvoicedAmount, &o.Notes, &o.CreatedBy, &version,
			&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler pedido: %w", err)
		}

		if quoteID != nil {
			o.QuoteID = *quoteID
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("erro ao converter itens: %w", err)
		}

		o.RemainingAmount = o.Total.Sub(o.InvoicedAmount)
		o.Restore(id, tenantID, version)
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return orders, nil
}
