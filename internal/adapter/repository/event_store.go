package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/pkg/domain"
)

// querier abstrai pool e transação para as consultas compartilhadas
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EventStore implementa a interface event.Store sobre o PostgreSQL.
// O log é append-only: eventos nunca são atualizados nem removidos
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore cria uma nova instância de EventStore
func NewEventStore(db *pgxpool.Pool) event.Store {
	return &EventStore{db: db}
}

// Append implementa event.Store.Append
func (s *EventStore) Append(ctx context.Context, events []event.Event) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := appendEventsTx(ctx, tx, events); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return nil
}

// Load implementa event.Store.Load
func (s *EventStore) Load(ctx context.Context, tenantID, aggregateID string) ([]event.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, aggregate_id, aggregate_type, type, tenant_id, user_id,
			aggregate_version, occurred_at, data
		FROM events
		WHERE tenant_id = $1 AND aggregate_id = $2
		ORDER BY aggregate_version ASC`,
		tenantID, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar eventos: %w", err)
	}
	defer rows.Close()

	return scanEventRows(rows)
}

// ListByAggregate implementa event.Store.ListByAggregate
func (s *EventStore) ListByAggregate(ctx context.Context, tenantID, aggregateID string, limit, offset int) ([]event.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, aggregate_id, aggregate_type, type, tenant_id, user_id,
			aggregate_version, occurred_at, data
		FROM events
		WHERE tenant_id = $1 AND aggregate_id = $2
		ORDER BY aggregate_version ASC
		LIMIT $3 OFFSET $4`,
		tenantID, aggregateID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar eventos: %w", err)
	}
	defer rows.Close()

	return scanEventRows(rows)
}

// appendEventsTx grava os eventos do buffer de um agregado dentro da
// transação corrente. A restrição única (aggregate_id, aggregate_version)
// é a última linha de defesa contra escritas concorrentes no mesmo agregado
func appendEventsTx(ctx context.Context, tx querier, events []event.Event) error {
	for _, e := range events {
		_, err := tx.Exec(ctx,
			`INSERT INTO events (
				id, aggregate_id, aggregate_type, type, tenant_id, user_id,
				aggregate_version, occurred_at, data
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, e.AggregateID, e.AggregateType, e.Type, e.TenantID,
			nullableString(e.UserID), e.AggregateVersion, e.OccurredAt, []byte(e.Data))
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return domain.NewConflict("versão do agregado já registrada no log de eventos")
			}
			return fmt.Errorf("erro ao gravar evento: %w", err)
		}
	}
	return nil
}

// scanEventRows processa resultados de consultas ao log de eventos
func scanEventRows(rows pgx.Rows) ([]event.Event, error) {
	events := make([]event.Event, 0)

	for rows.Next() {
		var e event.Event
		var userID *string
		var data []byte

		err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.Type,
			&e.TenantID, &userID, &e.AggregateVersion, &e.OccurredAt, &data)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler evento: %w", err)
		}

		if userID != nil {
			e.UserID = *userID
		}
		e.Data = json.RawMessage(data)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return events, nil
}

// loadAggregateEvents carrega o histórico completo de um agregado em
// ordem de versão, usado pelos repositórios para reconstrução via replay
func loadAggregateEvents(ctx context.Context, q querier, tenantID, aggregateID string) ([]event.Event, error) {
	rows, err := q.Query(ctx,
		`SELECT id, aggregate_id, aggregate_type, type, tenant_id, user_id,
			aggregate_version, occurred_at, data
		FROM events
		WHERE tenant_id = $1 AND aggregate_id = $2
		ORDER BY aggregate_version ASC`,
		tenantID, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar eventos: %w", err)
	}
	defer rows.Close()

	return scanEventRows(rows)
}

// nullableString converte string vazia em NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
