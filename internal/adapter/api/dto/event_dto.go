package dto

import (
	"encoding/json"
	"time"

	"github.com/vendaflow/crm-backend/internal/domain/event"
)

// EventResponse representa um evento do histórico de um agregado
type EventResponse struct {
	ID               string          `json:"id"`
	AggregateID      string          `json:"aggregate_id"`
	AggregateType    string          `json:"aggregate_type"`
	Type             string          `json:"type"`
	UserID           string          `json:"user_id,omitempty"`
	AggregateVersion int             `json:"aggregate_version"`
	OccurredAt       time.Time       `json:"occurred_at"`
	Data             json.RawMessage `json:"data"`
}

// EventListResponse representa a resposta de listagem do histórico de eventos
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	TotalCount int             `json:"total_count"`
}

// ToEventResponse converte um evento de domínio em uma resposta DTO
func ToEventResponse(e event.Event) EventResponse {
	return EventResponse{
		ID:               e.ID,
		AggregateID:      e.AggregateID,
		AggregateType:    e.AggregateType,
		Type:             e.Type,
		UserID:           e.UserID,
		AggregateVersion: e.AggregateVersion,
		OccurredAt:       e.OccurredAt,
		Data:             e.Data,
	}
}

// ToEventListResponse converte uma lista de eventos para o formato de resposta
func ToEventListResponse(events []event.Event) EventListResponse {
	response := EventListResponse{
		Events:     make([]EventResponse, len(events)),
		TotalCount: len(events),
	}

	for i, e := range events {
		response.Events[i] = ToEventResponse(e)
	}

	return response
}
