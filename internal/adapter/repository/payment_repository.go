package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/payment"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// PaymentRepository implementa a interface payment.Repository
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository cria uma nova instância de PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) payment.Repository {
	return &PaymentRepository{db: db}
}

// Record implementa payment.Repository.Record. O pagamento e a fatura com o
// saldo atualizado entram na mesma transação: uma falha desfaz os dois lados
func (r *PaymentRepository) Record(ctx context.Context, p *payment.Payment, inv *invoice.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO payments (
			id, tenant_id, invoice_id, amount, payment_method, status,
			payment_date, reference, transaction_id, created_by, created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.TenantID, p.InvoiceID, p.Amount, p.Method, p.Status,
		p.PaymentDate, nullableString(p.Reference),
		nullableString(p.TransactionID), p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar pagamento: %w", err)
	}

	if err := saveInvoiceTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	inv.ClearUncommittedEvents()
	return nil
}

// Refund implementa payment.Repository.Refund
func (r *PaymentRepository) Refund(ctx context.Context, p *payment.Payment, inv *invoice.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE payments SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4`,
		p.Status, p.UpdatedAt, p.ID, p.TenantID)
	if err != nil {
		return fmt.Errorf("erro ao estornar pagamento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("pagamento não encontrado")
	}

	if err := saveInvoiceTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	inv.ClearUncommittedEvents()
	return nil
}

// Delete implementa payment.Repository.Delete. A remoção da linha do
// pagamento e a reversão do saldo da fatura são atômicas
func (r *PaymentRepository) Delete(ctx context.Context, paymentID string, inv *invoice.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"DELETE FROM payments WHERE id = $1 AND tenant_id = $2",
		paymentID, inv.TenantID)
	if err != nil {
		return fmt.Errorf("erro ao excluir pagamento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("pagamento não encontrado")
	}

	if err := saveInvoiceTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	inv.ClearUncommittedEvents()
	return nil
}

// FindByID implementa payment.Repository.FindByID
func (r *PaymentRepository) FindByID(ctx context.Context, tenantID, id string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx,
		paymentSelectColumns+`
		FROM payments
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)

	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("pagamento não encontrado")
		}
		return nil, fmt.Errorf("erro ao buscar pagamento: %w", err)
	}

	return p, nil
}

// ListByInvoice implementa payment.Repository.ListByInvoice
func (r *PaymentRepository) ListByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*payment.Payment, error) {
	rows, err := r.db.Query(ctx,
		paymentSelectColumns+`
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY payment_date ASC, created_at ASC`,
		tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos: %w", err)
	}
	defer rows.Close()

	payments := make([]*payment.Payment, 0)
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler pagamento: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return payments, nil
}

const paymentSelectColumns = `SELECT
	id, tenant_id, invoice_id, amount, payment_method, status, payment_date,
	reference, transaction_id, created_by, created_at, updated_at`

// scanPaymentRow converte uma linha em Payment
func scanPaymentRow(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var reference, transactionID *string

	err := row.Scan(&p.ID, &p.TenantID, &p.InvoiceID, &p.Amount, &p.Method,
		&p.Status, &p.PaymentDate, &reference, &transactionID, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if reference != nil {
		p.Reference = *reference
	}
	if transactionID != nil {
		p.TransactionID = *transactionID
	}

	return &p, nil
}
