package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// OrderController gerencia as requisições relacionadas aos pedidos
type OrderController struct {
	orderRepository order.Repository
	eventStore      event.Store
}

// NewOrderController cria uma nova instância de OrderController
func NewOrderController(orderRepository order.Repository, eventStore event.Store) *OrderController {
	return &OrderController{
		orderRepository: orderRepository,
		eventStore:      eventStore,
	}
}

// Create cria um novo pedido
// @Summary Cria um novo pedido
// @Description Cria um novo pedido pendente com numeração sequencial do tenant
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param order body dto.OrderRequest true "Dados do pedido"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders [post]
func (c *OrderController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)

	var request dto.OrderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	number, err := c.orderRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	o, err := order.NewOrder(tenantID, userID, number, request.CompanyID, "", dto.ToLineItems(request.Items), request.TaxRate, request.Notes)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.orderRepository.Save(ctx.Request.Context(), o); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToOrderResponse(o))
}

// Get busca um pedido pelo ID
// @Summary Busca um pedido
// @Description Busca um pedido pelo ID no tenant atual
// @Tags orders
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id} [get]
func (c *OrderController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	o, err := c.orderRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// List lista os pedidos do tenant
// @Summary Lista pedidos
// @Description Lista os pedidos do tenant atual, com filtro opcional por status ou empresa
// @Tags orders
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param status query string false "Filtro por status"
// @Param company_id query string false "Filtro por empresa"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.OrderListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders [get]
func (c *OrderController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	var orders []*order.Order
	var err error

	switch {
	case ctx.Query("status") != "":
		orders, err = c.orderRepository.FindByStatus(ctx.Request.Context(), tenantID, order.Status(ctx.Query("status")), pagination.PageSize, pagination.Offset())
	case ctx.Query("company_id") != "":
		orders, err = c.orderRepository.FindByCompany(ctx.Request.Context(), tenantID, ctx.Query("company_id"), pagination.PageSize, pagination.Offset())
	default:
		orders, err = c.orderRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.orderRepository.CountByTenant(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderListResponse(orders, totalCount, pagination.Page, pagination.PageSize))
}

// UpdateStatus transiciona o status de um pedido
// @Summary Transiciona o status de um pedido
// @Description Muda o status do pedido respeitando o grafo de transições permitidas
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Param status body dto.OrderStatusRequest true "Novo status"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/status [patch]
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	var request dto.OrderStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	o, err := c.orderRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := o.Transition(userID, order.Status(request.Status)); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.orderRepository.Save(ctx.Request.Context(), o); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// History lista o histórico de eventos de um pedido
// @Summary Histórico de um pedido
// @Description Lista o histórico completo de eventos do pedido em ordem de versão
// @Tags orders
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.EventListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/history [get]
func (c *OrderController) History(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	events, err := c.eventStore.Load(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	if len(events) == 0 {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Pedido não encontrado", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventListResponse(events))
}
