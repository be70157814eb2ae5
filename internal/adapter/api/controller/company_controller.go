package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/adapter/repository"
	"github.com/vendaflow/crm-backend/internal/domain/company"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// CompanyController gerencia as requisições relacionadas às empresas
type CompanyController struct {
	companyRepository company.Repository
}

// NewCompanyController cria uma nova instância de CompanyController
func NewCompanyController(companyRepository company.Repository) *CompanyController {
	return &CompanyController{companyRepository: companyRepository}
}

// Create cria uma nova empresa
// @Summary Cria uma nova empresa
// @Description Cria uma nova empresa no tenant atual
// @Tags companies
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param company body dto.CompanyRequest true "Dados da empresa"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies [post]
func (c *CompanyController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)

	var request dto.CompanyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	exists, err := c.companyRepository.ExistsByDocument(ctx.Request.Context(), tenantID, request.Document)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	if exists {
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Empresa já existe", "Uma empresa com este documento já está cadastrada"))
		return
	}

	comp, err := company.NewCompany(tenantID, request.Name, request.Document, company.Source(request.Source))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	comp.TradeName = request.TradeName
	comp.Email = request.Email
	comp.Phone = request.Phone
	comp.Website = request.Website
	comp.Address = request.Address.ToAddress()
	comp.Notes = request.Notes

	if err := c.companyRepository.Create(ctx.Request.Context(), comp); err != nil {
		if err == repository.ErrCompanyDuplicateKey {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Empresa já existe", "Uma empresa com este documento já está cadastrada"))
			return
		}
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCompanyResponse(comp))
}

// Get busca uma empresa pelo ID
// @Summary Busca uma empresa
// @Description Busca uma empresa pelo ID no tenant atual
// @Tags companies
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da empresa"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies/{id} [get]
func (c *CompanyController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	comp, err := c.companyRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyResponse(comp))
}

// List lista as empresas do tenant
// @Summary Lista empresas
// @Description Lista as empresas do tenant atual, com filtro opcional por nome ou origem
// @Tags companies
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param name query string false "Filtro por nome"
// @Param source query string false "Filtro por origem (account ou customer)"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.CompanyListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies [get]
func (c *CompanyController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	var companies []*company.Company
	var err error

	switch {
	case ctx.Query("name") != "":
		companies, err = c.companyRepository.FindByName(ctx.Request.Context(), tenantID, ctx.Query("name"), pagination.PageSize, pagination.Offset())
	case ctx.Query("source") != "":
		companies, err = c.companyRepository.FindBySource(ctx.Request.Context(), tenantID, company.Source(ctx.Query("source")), pagination.PageSize, pagination.Offset())
	default:
		companies, err = c.companyRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.companyRepository.CountByTenant(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyListResponse(companies, totalCount, pagination.Page, pagination.PageSize))
}

// Update atualiza os dados de uma empresa
// @Summary Atualiza uma empresa
// @Description Atualiza os dados de uma empresa existente
// @Tags companies
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da empresa"
// @Param company body dto.CompanyRequest true "Dados da empresa"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies/{id} [put]
func (c *CompanyController) Update(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	var request dto.CompanyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	comp, err := c.companyRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := comp.Update(request.Name, request.TradeName, request.Email, request.Phone, request.Website, request.Address.ToAddress(), request.Notes); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.companyRepository.Update(ctx.Request.Context(), comp); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyResponse(comp))
}

// Deactivate desativa uma empresa
// @Summary Desativa uma empresa
// @Description Desativa uma empresa do tenant atual
// @Tags companies
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da empresa"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies/{id}/deactivate [patch]
func (c *CompanyController) Deactivate(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	if err := c.companyRepository.UpdateStatus(ctx.Request.Context(), tenantID, id, company.StatusInactive); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Empresa desativada com sucesso", nil))
}

// Activate reativa uma empresa
// @Summary Ativa uma empresa
// @Description Reativa uma empresa desativada
// @Tags companies
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da empresa"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies/{id}/activate [patch]
func (c *CompanyController) Activate(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	if err := c.companyRepository.UpdateStatus(ctx.Request.Context(), tenantID, id, company.StatusActive); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Empresa ativada com sucesso", nil))
}
