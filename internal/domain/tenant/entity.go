package tenant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrEmptyDocument = errors.New("documento não pode ser vazio")
)

// Status representa o estado do tenant
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Plan define o plano contratado pelo tenant
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Tenant representa a fronteira de isolamento do sistema: toda entidade e
// toda operação são restritas a exatamente um tenant. Tenants nunca são
// excluídos, apenas desativados
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email,omitempty"`
	Plan      Plan      `json:"plan"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTenant cria um novo tenant ativo
func NewTenant(name, document, email string, plan Plan) (*Tenant, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if document == "" {
		return nil, ErrEmptyDocument
	}
	if plan == "" {
		plan = PlanFree
	}

	now := time.Now().UTC()
	return &Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Document:  document,
		Email:     email,
		Plan:      plan,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se o tenant está ativo
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Activate ativa o tenant
func (t *Tenant) Activate() {
	t.Status = StatusActive
	t.UpdatedAt = time.Now().UTC()
}

// Deactivate desativa o tenant
func (t *Tenant) Deactivate() {
	t.Status = StatusInactive
	t.UpdatedAt = time.Now().UTC()
}
