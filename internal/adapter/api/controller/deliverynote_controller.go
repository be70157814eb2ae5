package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/adapter/repository"
	"github.com/vendaflow/crm-backend/internal/domain/deliverynote"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/logger"
	"github.com/vendaflow/crm-backend/pkg/notifier"
	"github.com/vendaflow/crm-backend/pkg/renderer"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// DeliveryNoteController gerencia as requisições relacionadas às notas de entrega
type DeliveryNoteController struct {
	deliveryRepository deliverynote.Repository
	notifier           notifier.Notifier
	renderer           renderer.Renderer
	logger             logger.Logger
}

// NewDeliveryNoteController cria uma nova instância de DeliveryNoteController
func NewDeliveryNoteController(deliveryRepository deliverynote.Repository, n notifier.Notifier, r renderer.Renderer, logger logger.Logger) *DeliveryNoteController {
	return &DeliveryNoteController{
		deliveryRepository: deliveryRepository,
		notifier:           n,
		renderer:           r,
		logger:             logger,
	}
}

// Create cria uma nova nota de entrega
// @Summary Cria uma nova nota de entrega
// @Description Cria uma nova nota de entrega pendente com numeração sequencial do tenant
// @Tags delivery-notes
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param delivery body dto.DeliveryNoteRequest true "Dados da nota de entrega"
// @Success 201 {object} dto.DeliveryNoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes [post]
func (c *DeliveryNoteController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)

	var request dto.DeliveryNoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	number, err := c.deliveryRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	d, err := deliverynote.NewDeliveryNote(tenantID, userID, number, request.CompanyID, request.InvoiceID, dto.ToLineItems(request.Items), request.ShippingAddress.ToShippingAddress(), request.Carrier, request.Notes)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.deliveryRepository.Create(ctx.Request.Context(), d); err != nil {
		if err == repository.ErrDeliveryNoteDuplicateKey {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Nota de entrega já existe", "Uma nota com este número já está cadastrada"))
			return
		}
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToDeliveryNoteResponse(d))
}

// Get busca uma nota de entrega pelo ID
// @Summary Busca uma nota de entrega
// @Description Busca uma nota de entrega pelo ID no tenant atual
// @Tags delivery-notes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da nota de entrega"
// @Success 200 {object} dto.DeliveryNoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes/{id} [get]
func (c *DeliveryNoteController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	d, err := c.deliveryRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDeliveryNoteResponse(d))
}

// List lista as notas de entrega do tenant
// @Summary Lista notas de entrega
// @Description Lista as notas de entrega do tenant atual, com filtro opcional por status ou fatura
// @Tags delivery-notes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param status query string false "Filtro por status"
// @Param invoice_id query string false "Filtro por fatura"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.DeliveryNoteListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes [get]
func (c *DeliveryNoteController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	var notes []*deliverynote.DeliveryNote
	var err error

	switch {
	case ctx.Query("status") != "":
		notes, err = c.deliveryRepository.FindByStatus(ctx.Request.Context(), tenantID, deliverynote.Status(ctx.Query("status")), pagination.PageSize, pagination.Offset())
	case ctx.Query("invoice_id") != "":
		notes, err = c.deliveryRepository.FindByInvoice(ctx.Request.Context(), tenantID, ctx.Query("invoice_id"))
	default:
		notes, err = c.deliveryRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.deliveryRepository.CountByTenant(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDeliveryNoteListResponse(notes, totalCount, pagination.Page, pagination.PageSize))
}

// Ship despacha uma nota de entrega
// @Summary Despacha uma nota de entrega
// @Description Transiciona a nota de pendente para em trânsito, registrando o código de rastreio
// @Tags delivery-notes
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da nota de entrega"
// @Param shipping body dto.DeliveryNoteShipRequest true "Dados do despacho"
// @Success 200 {object} dto.DeliveryNoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/ship [post]
func (c *DeliveryNoteController) Ship(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	var request dto.DeliveryNoteShipRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	d, err := c.deliveryRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := d.Ship(request.TrackingCode); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.deliveryRepository.Update(ctx.Request.Context(), d); err != nil {
		respondDomainError(ctx, err)
		return
	}

	notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateDeliveryShipped, map[string]interface{}{
		"delivery_id":     d.ID,
		"delivery_number": d.DeliveryNumber,
		"company_id":      d.CompanyID,
		"tracking_code":   d.TrackingCode,
	})

	ctx.JSON(http.StatusOK, dto.ToDeliveryNoteResponse(d))
}

// MarkDelivered marca uma nota de entrega como entregue
// @Summary Marca uma nota como entregue
// @Description Transiciona a nota de em trânsito para entregue
// @Tags delivery-notes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da nota de entrega"
// @Success 200 {object} dto.DeliveryNoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/deliver [post]
func (c *DeliveryNoteController) MarkDelivered(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	d, err := c.deliveryRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := d.MarkDelivered(); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.deliveryRepository.Update(ctx.Request.Context(), d); err != nil {
		respondDomainError(ctx, err)
		return
	}

	notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateDeliveryDelivered, map[string]interface{}{
		"delivery_id":     d.ID,
		"delivery_number": d.DeliveryNumber,
		"company_id":      d.CompanyID,
	})

	ctx.JSON(http.StatusOK, dto.ToDeliveryNoteResponse(d))
}

// Return marca uma nota de entrega como devolvida
// @Summary Marca uma nota como devolvida
// @Description Transiciona a nota para devolvida a partir de qualquer estado não terminal
// @Tags delivery-notes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da nota de entrega"
// @Success 200 {object} dto.DeliveryNoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/return [post]
func (c *DeliveryNoteController) Return(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	d, err := c.deliveryRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := d.Return(); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.deliveryRepository.Update(ctx.Request.Context(), d); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDeliveryNoteResponse(d))
}

// Pdf baixa a nota de entrega renderizada em PDF
// @Summary Baixa o PDF de uma nota de entrega
// @Description Renderiza a nota de entrega em PDF pelo serviço de renderização configurado
// @Tags delivery-notes
// @Produce application/pdf
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da nota de entrega"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/pdf [get]
func (c *DeliveryNoteController) Pdf(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	d, err := c.deliveryRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	respondPdf(ctx, c.renderer, tenantID, renderer.KindDeliveryNote, d.ID, d.DeliveryNumber+".pdf")
}
