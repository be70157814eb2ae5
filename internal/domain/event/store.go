package event

import (
	"context"
)

// Store define a interface do log durável de eventos
type Store interface {
	// Append grava os eventos no log, rejeitando versões duplicadas
	// para o mesmo agregado
	Append(ctx context.Context, events []Event) error

	// Load carrega o histórico completo de um agregado em ordem de versão
	Load(ctx context.Context, tenantID, aggregateID string) ([]Event, error)

	// ListByAggregate lista o histórico de um agregado com paginação,
	// usado para auditoria
	ListByAggregate(ctx context.Context, tenantID, aggregateID string, limit, offset int) ([]Event, error)
}
