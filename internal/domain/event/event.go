package event

import (
	"encoding/json"
	"time"
)

// Event representa um registro imutável de mudança de estado de um agregado.
// A sequência de eventos de um agregado, ordenada por AggregateVersion,
// é suficiente para reconstruí-lo do zero
type Event struct {
	ID               string          `json:"id"`
	AggregateID      string          `json:"aggregate_id"`
	AggregateType    string          `json:"aggregate_type"`
	Type             string          `json:"type"`
	TenantID         string          `json:"tenant_id"`
	UserID           string          `json:"user_id,omitempty"`
	AggregateVersion int             `json:"aggregate_version"`
	OccurredAt       time.Time       `json:"occurred_at"`
	Data             json.RawMessage `json:"data,omitempty"`
}

// DecodeData desserializa o payload do evento na estrutura informada
func (e Event) DecodeData(v interface{}) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
