package repository

import (
	"context"
	"fmt"
)

// Prefixos dos números de documento por tipo
const (
	prefixQuote        = "QT"
	prefixOrder        = "SO"
	prefixInvoice      = "INV"
	prefixDeliveryNote = "DN"
)

// nextDocumentNumber gera o próximo número sequencial de documento do
// tenant para o tipo informado. A sequência vive em uma linha por
// (tenant, tipo) e o incremento é atômico
func nextDocumentNumber(ctx context.Context, q querier, tenantID, docType, prefix string) (string, error) {
	var lastValue int64
	err := q.QueryRow(ctx,
		`INSERT INTO document_sequences (tenant_id, doc_type, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, doc_type)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		tenantID, docType).Scan(&lastValue)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar número de documento: %w", err)
	}

	return fmt.Sprintf("%s-%06d", prefix, lastValue), nil
}
