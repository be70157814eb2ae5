package dto

import (
	"time"

	"github.com/vendaflow/crm-backend/internal/domain/company"
)

// AddressRequest representa o endereço em requisições
type AddressRequest struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// ToAddress converte o endereço da requisição para o modelo de domínio
func (a AddressRequest) ToAddress() company.Address {
	return company.Address{
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		ZipCode:    a.ZipCode,
		Country:    a.Country,
	}
}

// CompanyRequest representa a estrutura de dados para criação/atualização de empresa
type CompanyRequest struct {
	Name      string         `json:"name" binding:"required"`
	TradeName string         `json:"trade_name"`
	Document  string         `json:"document" binding:"required"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Website   string         `json:"website"`
	Source    string         `json:"source"`
	Address   AddressRequest `json:"address"`
	Notes     string         `json:"notes"`
}

// CompanyResponse representa a estrutura de dados de resposta para empresa
type CompanyResponse struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Name      string          `json:"name"`
	TradeName string          `json:"trade_name,omitempty"`
	Document  string          `json:"document"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Website   string          `json:"website,omitempty"`
	Source    string          `json:"source"`
	Status    string          `json:"status"`
	Address   company.Address `json:"address"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CompanyListResponse representa a resposta de listagem de empresas
type CompanyListResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ToCompanyResponse converte um modelo de domínio em uma resposta DTO
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		TradeName: c.TradeName,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		Source:    string(c.Source),
		Status:    string(c.Status),
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCompanyListResponse converte uma lista de empresas para o formato de resposta
func ToCompanyListResponse(companies []*company.Company, totalCount, page, pageSize int) CompanyListResponse {
	response := CompanyListResponse{
		Companies:  make([]CompanyResponse, len(companies)),
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}

	for i, c := range companies {
		response.Companies[i] = ToCompanyResponse(c)
	}

	return response
}
