package company

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrEmptyDocument = errors.New("documento não pode ser vazio")
)

// Source distingue a empresa-conta do próprio tenant das empresas clientes
type Source string

const (
	SourceAccount  Source = "account"
	SourceCustomer Source = "customer"
)

// Status representa o estado da empresa
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Address representa o endereço da empresa
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// Company representa uma organização cliente ou conta do tenant,
// referenciada por orçamentos, pedidos, faturas e notas de entrega
// como parte faturada
type Company struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	TradeName string    `json:"trade_name,omitempty"`
	Document  string    `json:"document"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Source    Source    `json:"source"`
	Status    Status    `json:"status"`
	Address   Address   `json:"address"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCompany cria uma nova empresa
func NewCompany(tenantID, name, document string, source Source) (*Company, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if document == "" {
		return nil, ErrEmptyDocument
	}
	if source == "" {
		source = SourceCustomer
	}

	now := time.Now().UTC()
	return &Company{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Document:  document,
		Source:    source,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se a empresa está ativa
func (c *Company) IsActive() bool {
	return c.Status == StatusActive
}

// Activate ativa a empresa
func (c *Company) Activate() {
	c.Status = StatusActive
	c.UpdatedAt = time.Now().UTC()
}

// Deactivate desativa a empresa
func (c *Company) Deactivate() {
	c.Status = StatusInactive
	c.UpdatedAt = time.Now().UTC()
}

// Update atualiza os dados da empresa
func (c *Company) Update(name, tradeName, email, phone, website string, address Address, notes string) error {
	if name == "" {
		return ErrEmptyName
	}

	c.Name = name
	c.TradeName = tradeName
	c.Email = email
	c.Phone = phone
	c.Website = website
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now().UTC()

	return nil
}
