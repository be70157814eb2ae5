package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Erros do mecanismo de agregados
var (
	ErrEventOutOfOrder   = errors.New("evento fora de ordem para o agregado")
	ErrAggregateMismatch = errors.New("evento não pertence a este agregado")
)

// Applier é implementado por cada agregado e aplica um evento ao estado.
// Apply nunca altera a versão nem o buffer de eventos; isso é
// responsabilidade exclusiva do AggregateRoot
type Applier interface {
	Apply(e Event) error
}

// AggregateRoot é a base embutida pelos agregados (orçamento, pedido,
// fatura). Toda mutação de estado acontece pela aplicação de um evento:
// Raise para comandos novos, LoadFromHistory para reconstrução.
// A versão do agregado é sempre igual ao número de eventos aplicados
type AggregateRoot struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`

	version     int
	uncommitted []Event
}

// Version retorna a versão atual do agregado (quantidade de eventos aplicados)
func (r *AggregateRoot) Version() int {
	return r.version
}

// UncommittedEvents retorna uma cópia dos eventos ainda não persistidos
func (r *AggregateRoot) UncommittedEvents() []Event {
	snapshot := make([]Event, len(r.uncommitted))
	copy(snapshot, r.uncommitted)
	return snapshot
}

// ClearUncommittedEvents descarta o buffer após a persistência gravar os
// eventos no log durável
func (r *AggregateRoot) ClearUncommittedEvents() {
	r.uncommitted = nil
}

// Raise aplica um evento novo ao agregado e o adiciona ao buffer de
// eventos não persistidos. Usado pelos comandos de negócio
func (r *AggregateRoot) Raise(a Applier, aggregateType, eventType, userID string, payload interface{}) error {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("erro ao serializar payload do evento %s: %w", eventType, err)
		}
		data = encoded
	}

	e := Event{
		ID:               uuid.New().String(),
		AggregateID:      r.ID,
		AggregateType:    aggregateType,
		Type:             eventType,
		TenantID:         r.TenantID,
		UserID:           userID,
		AggregateVersion: r.version + 1,
		OccurredAt:       time.Now().UTC(),
		Data:             data,
	}

	if err := a.Apply(e); err != nil {
		return err
	}

	r.version++
	r.uncommitted = append(r.uncommitted, e)
	return nil
}

// Restore define a identidade e a versão do agregado ao reidratá-lo a
// partir das colunas derivadas, sem reaplicar o histórico. Usado apenas
// em leituras de listagem; comandos reconstroem via LoadFromHistory
func (r *AggregateRoot) Restore(id, tenantID string, version int) {
	r.ID = id
	r.TenantID = tenantID
	r.version = version
}

// LoadFromHistory reconstrói o agregado reaplicando a sequência completa
// de eventos em ordem. Eventos reaplicados nunca entram no buffer
func (r *AggregateRoot) LoadFromHistory(a Applier, events []Event) error {
	for _, e := range events {
		if r.ID != "" && e.AggregateID != r.ID {
			return ErrAggregateMismatch
		}
		if e.AggregateVersion != r.version+1 {
			return fmt.Errorf("%w: esperada versão %d, recebida %d", ErrEventOutOfOrder, r.version+1, e.AggregateVersion)
		}
		if err := a.Apply(e); err != nil {
			return err
		}
		r.version++
	}
	return nil
}
