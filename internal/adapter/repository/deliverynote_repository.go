package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/deliverynote"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// Erros específicos do repositório
var (
	ErrDeliveryNoteDuplicateKey = errors.New("nota de entrega com mesmo número já existe")
)

// DeliveryNoteRepository implementa a interface deliverynote.Repository
type DeliveryNoteRepository struct {
	db *pgxpool.Pool
}

// NewDeliveryNoteRepository cria uma nova instância de DeliveryNoteRepository
func NewDeliveryNoteRepository(db *pgxpool.Pool) deliverynote.Repository {
	return &DeliveryNoteRepository{db: db}
}

// Create implementa deliverynote.Repository.Create
func (r *DeliveryNoteRepository) Create(ctx context.Context, d *deliverynote.DeliveryNote) error {
	items, address, err := marshalDeliveryNote(d)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO delivery_notes (
			id, tenant_id, delivery_number, company_id, invoice_id, status,
			items, carrier, tracking_code, shipping_address, shipped_at,
			delivered_at, notes, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)`,
		d.ID, d.TenantID, d.DeliveryNumber, d.CompanyID,
		nullableString(d.InvoiceID), d.Status, items,
		nullableString(d.Carrier), nullableString(d.TrackingCode), address,
		d.ShippedAt, d.DeliveredAt, d.Notes, d.CreatedBy, d.CreatedAt,
		d.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDeliveryNoteDuplicateKey
		}
		return fmt.Errorf("erro ao criar nota de entrega: %w", err)
	}

	return nil
}

// Update implementa deliverynote.Repository.Update
func (r *DeliveryNoteRepository) Update(ctx context.Context, d *deliverynote.DeliveryNote) error {
	items, address, err := marshalDeliveryNote(d)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE delivery_notes SET
			status = $1, items = $2, carrier = $3, tracking_code = $4,
			shipping_address = $5, shipped_at = $6, delivered_at = $7,
			notes = $8, updated_at = $9
		WHERE id = $10 AND tenant_id = $11`,
		d.Status, items, nullableString(d.Carrier),
		nullableString(d.TrackingCode), address, d.ShippedAt, d.DeliveredAt,
		d.Notes, d.UpdatedAt, d.ID, d.TenantID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar nota de entrega: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("nota de entrega não encontrada")
	}

	return nil
}

// FindByID implementa deliverynote.Repository.FindByID
func (r *DeliveryNoteRepository) FindByID(ctx context.Context, tenantID, id string) (*deliverynote.DeliveryNote, error) {
	row := r.db.QueryRow(ctx,
		deliveryNoteSelectColumns+`
		FROM delivery_notes
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)

	d, err := scanDeliveryNoteRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("nota de entrega não encontrada")
		}
		return nil, fmt.Errorf("erro ao buscar nota de entrega: %w", err)
	}

	return d, nil
}

// List implementa deliverynote.Repository.List
func (r *DeliveryNoteRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*deliverynote.DeliveryNote, error) {
	rows, err := r.db.Query(ctx,
		deliveryNoteSelectColumns+`
		FROM delivery_notes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar notas de entrega: %w", err)
	}
	defer rows.Close()

	return collectDeliveryNoteRows(rows)
}

// FindByStatus implementa deliverynote.Repository.FindByStatus
func (r *DeliveryNoteRepository) FindByStatus(ctx context.Context, tenantID string, status deliverynote.Status, limit, offset int) ([]*deliverynote.DeliveryNote, error) {
	rows, err := r.db.Query(ctx,
		deliveryNoteSelectColumns+`
		FROM delivery_notes
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar notas de entrega: %w", err)
	}
	defer rows.Close()

	return collectDeliveryNoteRows(rows)
}

// FindByInvoice implementa deliverynote.Repository.FindByInvoice
func (r *DeliveryNoteRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID string) ([]*deliverynote.DeliveryNote, error) {
	rows, err := r.db.Query(ctx,
		deliveryNoteSelectColumns+`
		FROM delivery_notes
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY created_at DESC`,
		tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar notas de entrega: %w", err)
	}
	defer rows.Close()

	return collectDeliveryNoteRows(rows)
}

// CountByTenant implementa deliverynote.Repository.CountByTenant
func (r *DeliveryNoteRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM delivery_notes WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar notas de entrega: %w", err)
	}

	return count, nil
}

// NextNumber implementa deliverynote.Repository.NextNumber
func (r *DeliveryNoteRepository) NextNumber(ctx context.Context, tenantID string) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, "delivery_note", prefixDeliveryNote)
}

const deliveryNoteSelectColumns = `SELECT
	id, tenant_id, delivery_number, company_id, invoice_id, status, items,
	carrier, tracking_code, shipping_address, shipped_at, delivered_at,
	notes, created_by, created_at, updated_at`

// marshalDeliveryNote converte itens e endereço para JSON
func marshalDeliveryNote(d *deliverynote.DeliveryNote) ([]byte, []byte, error) {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}
	address, err := json.Marshal(d.ShippingAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao converter endereço para JSON: %w", err)
	}
	return items, address, nil
}

// scanDeliveryNoteRow converte uma linha em DeliveryNote
func scanDeliveryNoteRow(row pgx.Row) (*deliverynote.DeliveryNote, error) {
	var d deliverynote.DeliveryNote
	var invoiceID, carrier, trackingCode *string
	var itemsJSON, addressJSON []byte

	err := row.Scan(&d.ID, &d.TenantID, &d.DeliveryNumber, &d.CompanyID,
		&invoiceID, &d.Status, &itemsJSON, &carrier, &trackingCode,
		&addressJSON, &d.ShippedAt, &d.DeliveredAt, &d.Notes, &d.CreatedBy,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if invoiceID != nil {
		d.InvoiceID = *invoiceID
	}
	if carrier != nil {
		d.Carrier = *carrier
	}
	if trackingCode != nil {
		d.TrackingCode = *trackingCode
	}
	if err := json.Unmarshal(itemsJSON, &d.Items); err != nil {
		return nil, fmt.Errorf("erro ao converter itens: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &d.ShippingAddress); err != nil {
		return nil, fmt.Errorf("erro ao converter endereço: %w", err)
	}

	return &d, nil
}

// collectDeliveryNoteRows processa resultados de consultas que retornam
// múltiplas notas de entrega
func collectDeliveryNoteRows(rows pgx.Rows) ([]*deliverynote.DeliveryNote, error) {
	notes := make([]*deliverynote.DeliveryNote, 0)

	for rows.Next() {
		d, err := scanDeliveryNoteRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler nota de entrega: %w", err)
		}
		notes = append(notes, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return notes, nil
}
