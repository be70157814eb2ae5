package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/adapter/repository"
	"github.com/vendaflow/crm-backend/internal/domain/tenant"
)

// TenantController gerencia as requisições relacionadas aos tenants
type TenantController struct {
	tenantRepository tenant.Repository
}

// NewTenantController cria uma nova instância de TenantController
func NewTenantController(tenantRepository tenant.Repository) *TenantController {
	return &TenantController{tenantRepository: tenantRepository}
}

// Create cria um novo tenant
// @Summary Cria um novo tenant
// @Description Cria um novo tenant no sistema
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.TenantRequest true "Dados do tenant"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants [post]
func (c *TenantController) Create(ctx *gin.Context) {
	var request dto.TenantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	t, err := tenant.NewTenant(request.Name, request.Document, request.Email, tenant.Plan(request.Plan))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.tenantRepository.Create(ctx.Request.Context(), t); err != nil {
		if err == repository.ErrTenantDuplicateKey {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Tenant já existe", "Um tenant com este documento já está cadastrado"))
			return
		}
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTenantResponse(t))
}

// Get busca um tenant pelo ID
// @Summary Busca um tenant
// @Description Busca um tenant pelo ID
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id} [get]
func (c *TenantController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	t, err := c.tenantRepository.FindByID(ctx.Request.Context(), id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// List lista os tenants com paginação
// @Summary Lista tenants
// @Description Lista os tenants do sistema com paginação
// @Tags tenants
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.TenantListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants [get]
func (c *TenantController) List(ctx *gin.Context) {
	pagination := getPaginationParams(ctx)

	tenants, err := c.tenantRepository.List(ctx.Request.Context(), pagination.PageSize, pagination.Offset())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.tenantRepository.Count(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantListResponse(tenants, totalCount, pagination.Page, pagination.PageSize))
}

// Update atualiza os dados de um tenant
// @Summary Atualiza um tenant
// @Description Atualiza os dados de um tenant existente
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "ID do tenant"
// @Param tenant body dto.TenantRequest true "Dados do tenant"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id} [put]
func (c *TenantController) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.TenantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	t, err := c.tenantRepository.FindByID(ctx.Request.Context(), id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	t.Name = request.Name
	t.Email = request.Email
	if request.Plan != "" {
		t.Plan = tenant.Plan(request.Plan)
	}

	if err := c.tenantRepository.Update(ctx.Request.Context(), t); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// Deactivate desativa um tenant. Tenants nunca são excluídos
// @Summary Desativa um tenant
// @Description Desativa um tenant; os dados são preservados
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id}/deactivate [patch]
func (c *TenantController) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.tenantRepository.UpdateStatus(ctx.Request.Context(), id, tenant.StatusInactive); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Tenant desativado com sucesso", nil))
}

// Activate reativa um tenant
// @Summary Ativa um tenant
// @Description Reativa um tenant desativado
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id}/activate [patch]
func (c *TenantController) Activate(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.tenantRepository.UpdateStatus(ctx.Request.Context(), id, tenant.StatusActive); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Tenant ativado com sucesso", nil))
}
