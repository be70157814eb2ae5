package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/domain/allocation"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/logger"
	"github.com/vendaflow/crm-backend/pkg/notifier"
	"github.com/vendaflow/crm-backend/pkg/renderer"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// InvoiceController gerencia as requisições relacionadas às faturas
type InvoiceController struct {
	invoiceRepository    invoice.Repository
	allocationRepository allocation.Repository
	eventStore           event.Store
	notifier             notifier.Notifier
	renderer             renderer.Renderer
	logger               logger.Logger
}

// NewInvoiceController cria uma nova instância de InvoiceController
func NewInvoiceController(invoiceRepository invoice.Repository, allocationRepository allocation.Repository, eventStore event.Store, n notifier.Notifier, r renderer.Renderer, logger logger.Logger) *InvoiceController {
	return &InvoiceController{
		invoiceRepository:    invoiceRepository,
		allocationRepository: allocationRepository,
		eventStore:           eventStore,
		notifier:             n,
		renderer:             r,
		logger:               logger,
	}
}

// Create cria uma nova fatura
// @Summary Cria uma nova fatura
// @Description Cria uma nova fatura em rascunho com numeração sequencial do tenant
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param invoice body dto.InvoiceRequest true "Dados da fatura"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices [post]
func (c *InvoiceController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)

	var request dto.InvoiceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	number, err := c.invoiceRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	inv, err := invoice.NewInvoice(tenantID, userID, number, request.CompanyID, "", time.Now().UTC(), request.DueDate, dto.ToLineItems(request.Items), request.TaxRate, request.Notes)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// Get busca uma fatura pelo ID
// @Summary Busca uma fatura
// @Description Busca uma fatura pelo ID no tenant atual
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id} [get]
func (c *InvoiceController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// List lista as faturas do tenant
// @Summary Lista faturas
// @Description Lista as faturas do tenant atual, com filtro opcional por status ou empresa
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param status query string false "Filtro por status"
// @Param company_id query string false "Filtro por empresa"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.InvoiceListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices [get]
func (c *InvoiceController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	var invoices []*invoice.Invoice
	var err error

	switch {
	case ctx.Query("status") != "":
		invoices, err = c.invoiceRepository.FindByStatus(ctx.Request.Context(), tenantID, invoice.Status(ctx.Query("status")), pagination.PageSize, pagination.Offset())
	case ctx.Query("company_id") != "":
		invoices, err = c.invoiceRepository.FindByCompany(ctx.Request.Context(), tenantID, ctx.Query("company_id"), pagination.PageSize, pagination.Offset())
	default:
		invoices, err = c.invoiceRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.invoiceRepository.CountByTenant(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceListResponse(invoices, totalCount, pagination.Page, pagination.PageSize))
}

// UpdateItems substitui os itens de uma fatura em rascunho
// @Summary Atualiza os itens de uma fatura
// @Description Substitui os itens e recalcula os totais; permitido somente em rascunho sem pagamentos
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Param items body dto.InvoiceItemsRequest true "Itens da fatura"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/items [put]
func (c *InvoiceController) UpdateItems(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	var request dto.InvoiceItemsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := inv.UpdateItems(userID, dto.ToLineItems(request.Items), request.TaxRate); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Send envia uma fatura ao cliente
// @Summary Envia uma fatura
// @Description Transiciona a fatura de rascunho para enviada
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/send [post]
func (c *InvoiceController) Send(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := inv.Send(userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateInvoiceSent, map[string]interface{}{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"company_id":     inv.CompanyID,
		"total":          inv.Total.String(),
		"due_date":       inv.DueDate,
	})

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Cancel cancela uma fatura sem pagamentos nem alocações
// @Summary Cancela uma fatura
// @Description Cancela a fatura; não permitido quando existem pagamentos registrados ou alocações ativas em pedidos
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/cancel [post]
func (c *InvoiceController) Cancel(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	allocated, err := c.allocationRepository.SumByInvoice(ctx.Request.Context(), tenantID, inv.ID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := inv.Cancel(userID, allocated); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// RefreshOverdue marca como vencidas as faturas não pagas após o vencimento
// @Summary Marca faturas vencidas
// @Description Percorre as faturas enviadas com vencimento ultrapassado e as marca como vencidas
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/refresh-overdue [post]
func (c *InvoiceController) RefreshOverdue(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	now := time.Now().UTC()

	candidates, err := c.invoiceRepository.FindDueBefore(ctx.Request.Context(), tenantID, now, 100, 0)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	marked := 0
	for _, inv := range candidates {
		changed, err := inv.RefreshOverdue(userID, now)
		if err != nil {
			c.logger.Warn("falha ao derivar vencimento da fatura", "invoice_id", inv.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}

		if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
			c.logger.Warn("falha ao gravar fatura vencida", "invoice_id", inv.ID, "error", err)
			continue
		}

		notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateInvoiceOverdue, map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"company_id":     inv.CompanyID,
			"due_date":       inv.DueDate,
		})
		marked++
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Faturas vencidas atualizadas", map[string]interface{}{
		"checked": len(candidates),
		"marked":  marked,
	}))
}

// History lista o histórico de eventos de uma fatura
// @Summary Histórico de uma fatura
// @Description Lista o histórico completo de eventos da fatura em ordem de versão
// @Tags invoices
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.EventListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/history [get]
func (c *InvoiceController) History(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	events, err := c.eventStore.Load(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	if len(events) == 0 {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Fatura não encontrada", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventListResponse(events))
}

// Pdf baixa a fatura renderizada em PDF
// @Summary Baixa o PDF de uma fatura
// @Description Renderiza a fatura em PDF pelo serviço de renderização configurado
// @Tags invoices
// @Produce application/pdf
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /invoices/{id}/pdf [get]
func (c *InvoiceController) Pdf(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	respondPdf(ctx, c.renderer, tenantID, renderer.KindInvoice, inv.ID, inv.InvoiceNumber+".pdf")
}
