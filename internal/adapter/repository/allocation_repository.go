package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vendaflow/crm-backend/internal/domain/allocation"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// AllocationRepository implementa a interface allocation.Repository
type AllocationRepository struct {
	db *pgxpool.Pool
}

// NewAllocationRepository cria uma nova instância de AllocationRepository
func NewAllocationRepository(db *pgxpool.Pool) allocation.Repository {
	return &AllocationRepository{db: db}
}

// Save implementa allocation.Repository.Save. A linha da ponte e o pedido
// com os saldos rederivados entram na mesma transação; alocar de novo o
// mesmo par fatura/pedido incrementa a linha existente. A fatura é
// bloqueada na transação e o teto de alocação rechecado sob o lock,
// serializando alocações concorrentes da mesma fatura em pedidos distintos
func (r *AllocationRepository) Save(ctx context.Context, alloc *allocation.Allocation, ord *order.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceTotal decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT total FROM invoices
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`,
		alloc.TenantID, alloc.InvoiceID).Scan(&invoiceTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("fatura não encontrada")
		}
		return fmt.Errorf("erro ao bloquear fatura: %w", err)
	}

	var allocated decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_allocated), 0)
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND invoice_id = $2`,
		alloc.TenantID, alloc.InvoiceID).Scan(&allocated)
	if err != nil {
		return fmt.Errorf("erro ao somar alocações da fatura: %w", err)
	}

	if err := ensureInvoiceCeiling(invoiceTotal, allocated, alloc.AmountAllocated); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO invoice_order_allocations (
			id, tenant_id, invoice_id, order_id, amount_allocated, created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, invoice_id, order_id)
		DO UPDATE SET
			amount_allocated = invoice_order_allocations.amount_allocated + EXCLUDED.amount_allocated,
			updated_at = EXCLUDED.updated_at`,
		alloc.ID, alloc.TenantID, alloc.InvoiceID, alloc.OrderID,
		alloc.AmountAllocated, alloc.CreatedAt, alloc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao gravar alocação: %w", err)
	}

	if err := saveOrderTx(ctx, tx, ord); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	ord.ClearUncommittedEvents()
	return nil
}

// Delete implementa allocation.Repository.Delete
func (r *AllocationRepository) Delete(ctx context.Context, alloc *allocation.Allocation, ord *order.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM invoice_order_allocations
		WHERE tenant_id = $1 AND invoice_id = $2 AND order_id = $3`,
		alloc.TenantID, alloc.InvoiceID, alloc.OrderID)
	if err != nil {
		return fmt.Errorf("erro ao remover alocação: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("alocação não encontrada")
	}

	if err := saveOrderTx(ctx, tx, ord); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	ord.ClearUncommittedEvents()
	return nil
}

// FindByPair implementa allocation.Repository.FindByPair
func (r *AllocationRepository) FindByPair(ctx context.Context, tenantID, invoiceID, orderID string) (*allocation.Allocation, error) {
	row := r.db.QueryRow(ctx,
		allocationSelectColumns+`
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND invoice_id = $2 AND order_id = $3`,
		tenantID, invoiceID, orderID)

	a, err := scanAllocationRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("alocação não encontrada")
		}
		return nil, fmt.Errorf("erro ao buscar alocação: %w", err)
	}

	return a, nil
}

// ListByOrder implementa allocation.Repository.ListByOrder
func (r *AllocationRepository) ListByOrder(ctx context.Context, tenantID, orderID string) ([]*allocation.Allocation, error) {
	rows, err := r.db.Query(ctx,
		allocationSelectColumns+`
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY created_at ASC`,
		tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alocações: %w", err)
	}
	defer rows.Close()

	return collectAllocationRows(rows)
}

// ListByInvoice implementa allocation.Repository.ListByInvoice
func (r *AllocationRepository) ListByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*allocation.Allocation, error) {
	rows, err := r.db.Query(ctx,
		allocationSelectColumns+`
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY created_at ASC`,
		tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alocações: %w", err)
	}
	defer rows.Close()

	return collectAllocationRows(rows)
}

// SumByInvoice implementa allocation.Repository.SumByInvoice
func (r *AllocationRepository) SumByInvoice(ctx context.Context, tenantID, invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_allocated), 0)
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND invoice_id = $2`,
		tenantID, invoiceID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("erro ao somar alocações da fatura: %w", err)
	}

	return sum, nil
}

// SumByOrder implementa allocation.Repository.SumByOrder
func (r *AllocationRepository) SumByOrder(ctx context.Context, tenantID, orderID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_allocated), 0)
		FROM invoice_order_allocations
		WHERE tenant_id = $1 AND order_id = $2`,
		tenantID, orderID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("erro ao somar alocações do pedido: %w", err)
	}

	return sum, nil
}

// ensureInvoiceCeiling recheca o teto de alocação da fatura dentro da
// transação. A soma lida pelo comando antes da transação pode estar
// defasada por uma alocação concorrente da mesma fatura em outro pedido
func ensureInvoiceCeiling(invoiceTotal, allocated, amount decimal.Decimal) error {
	if allocated.Add(amount).GreaterThan(invoiceTotal) {
		return domain.NewConflict("alocações da fatura excederiam o total; outra alocação foi gravada de forma concorrente")
	}
	return nil
}

const allocationSelectColumns = `SELECT
	id, tenant_id, invoice_id, order_id, amount_allocated, created_at,
	updated_at`

// scanAllocationRow converte uma linha em Allocation
func scanAllocationRow(row pgx.Row) (*allocation.Allocation, error) {
	var a allocation.Allocation
	err := row.Scan(&a.ID, &a.TenantID, &a.InvoiceID, &a.OrderID,
		&a.AmountAllocated, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// collectAllocationRows processa resultados de consultas que retornam
// múltiplas alocações
func collectAllocationRows(rows pgx.Rows) ([]*allocation.Allocation, error) {
	allocations := make([]*allocation.Allocation, 0)

	for rows.Next() {
		a, err := scanAllocationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler alocação: %w", err)
		}
		allocations = append(allocations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return allocations, nil
}
