package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/adapter/repository"
	"github.com/vendaflow/crm-backend/internal/domain/user"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// UserController gerencia as requisições relacionadas aos usuários
type UserController struct {
	userRepository user.Repository
}

// NewUserController cria uma nova instância de UserController
func NewUserController(userRepository user.Repository) *UserController {
	return &UserController{userRepository: userRepository}
}

// Create cria um novo usuário no tenant
// @Summary Cria um novo usuário
// @Description Cria um novo usuário no tenant atual
// @Tags users
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param user body dto.UserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)

	var request dto.UserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	u, err := user.NewUser(tenantID, request.Name, request.Email, request.Password, user.Role(request.Role))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.userRepository.Create(ctx.Request.Context(), u); err != nil {
		if err == repository.ErrUserDuplicateKey {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Usuário já existe", "Um usuário com este email já está cadastrado"))
			return
		}
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

// Get busca um usuário pelo ID
// @Summary Busca um usuário
// @Description Busca um usuário pelo ID no tenant atual
// @Tags users
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do usuário"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	u, err := c.userRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// List lista os usuários do tenant
// @Summary Lista usuários
// @Description Lista os usuários do tenant atual com paginação
// @Tags users
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.UserListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	users, err := c.userRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserListResponse(users, len(users), pagination.Page, pagination.PageSize))
}

// Deactivate desativa um usuário
// @Summary Desativa um usuário
// @Description Desativa um usuário do tenant atual
// @Tags users
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do usuário"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id}/deactivate [patch]
func (c *UserController) Deactivate(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	u, err := c.userRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	u.Deactivate()

	if err := c.userRepository.Update(ctx.Request.Context(), u); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Usuário desativado com sucesso", nil))
}
