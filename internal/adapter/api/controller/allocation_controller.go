package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/domain/allocation"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// AllocationController gerencia as requisições da ponte de alocação
// fatura↔pedido
type AllocationController struct {
	allocationRepository allocation.Repository
	invoiceRepository    invoice.Repository
	orderRepository      order.Repository
	bridge               *allocation.Bridge
}

// NewAllocationController cria uma nova instância de AllocationController
func NewAllocationController(allocationRepository allocation.Repository, invoiceRepository invoice.Repository, orderRepository order.Repository, bridge *allocation.Bridge) *AllocationController {
	return &AllocationController{
		allocationRepository: allocationRepository,
		invoiceRepository:    invoiceRepository,
		orderRepository:      orderRepository,
		bridge:               bridge,
	}
}

// Allocate aloca o valor de uma fatura a um pedido
// @Summary Aloca uma fatura a um pedido
// @Description Registra a cobertura de um pedido por uma fatura; os tetos dos dois lados são verificados
// @Tags allocations
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Param allocation body dto.AllocationRequest true "Dados da alocação"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/allocations [post]
func (c *AllocationController) Allocate(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	orderID := ctx.Param("id")

	var request dto.AllocationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, request.InvoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ord, err := c.orderRepository.FindByID(ctx.Request.Context(), tenantID, orderID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	invoiceAllocated, err := c.allocationRepository.SumByInvoice(ctx.Request.Context(), tenantID, inv.ID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	alloc, err := c.bridge.Allocate(inv, ord, invoiceAllocated, request.Amount, userID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.allocationRepository.Save(ctx.Request.Context(), alloc, ord); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToAllocationResponse(alloc))
}

// Deallocate desfaz a alocação entre uma fatura e um pedido
// @Summary Remove uma alocação
// @Description Desfaz a alocação de uma fatura a um pedido, devolvendo o valor ao saldo restante
// @Tags allocations
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Param invoice_id path string true "ID da fatura"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/allocations/{invoice_id} [delete]
func (c *AllocationController) Deallocate(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	orderID := ctx.Param("id")
	invoiceID := ctx.Param("invoice_id")

	alloc, err := c.allocationRepository.FindByPair(ctx.Request.Context(), tenantID, invoiceID, orderID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ord, err := c.orderRepository.FindByID(ctx.Request.Context(), tenantID, orderID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.bridge.Deallocate(ord, alloc, userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.allocationRepository.Delete(ctx.Request.Context(), alloc, ord); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Alocação removida com sucesso", nil))
}

// ListByOrder lista as alocações de um pedido
// @Summary Lista alocações de um pedido
// @Description Lista as faturas alocadas a um pedido
// @Tags allocations
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.AllocationListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/allocations [get]
func (c *AllocationController) ListByOrder(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	orderID := ctx.Param("id")

	allocations, err := c.allocationRepository.ListByOrder(ctx.Request.Context(), tenantID, orderID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAllocationListResponse(allocations))
}

// ListByInvoice lista as alocações de uma fatura
// @Summary Lista alocações de uma fatura
// @Description Lista os pedidos cobertos por uma fatura
// @Tags allocations
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.AllocationListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/allocations [get]
func (c *AllocationController) ListByInvoice(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	invoiceID := ctx.Param("id")

	allocations, err := c.allocationRepository.ListByInvoice(ctx.Request.Context(), tenantID, invoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAllocationListResponse(allocations))
}
