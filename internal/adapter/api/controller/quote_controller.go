package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/domain/event"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/order"
	"github.com/vendaflow/crm-backend/internal/domain/quote"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/logger"
	"github.com/vendaflow/crm-backend/pkg/notifier"
	"github.com/vendaflow/crm-backend/pkg/renderer"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// QuoteController gerencia as requisições relacionadas aos orçamentos
type QuoteController struct {
	quoteRepository   quote.Repository
	invoiceRepository invoice.Repository
	orderRepository   order.Repository
	eventStore        event.Store
	notifier          notifier.Notifier
	renderer          renderer.Renderer
	logger            logger.Logger
}

// NewQuoteController cria uma nova instância de QuoteController
func NewQuoteController(quoteRepository quote.Repository, invoiceRepository invoice.Repository, orderRepository order.Repository, eventStore event.Store, n notifier.Notifier, r renderer.Renderer, logger logger.Logger) *QuoteController {
	return &QuoteController{
		quoteRepository:   quoteRepository,
		invoiceRepository: invoiceRepository,
		orderRepository:   orderRepository,
		eventStore:        eventStore,
		notifier:          n,
		renderer:          r,
		logger:            logger,
	}
}

// Create cria um novo orçamento
// @Summary Cria um novo orçamento
// @Description Cria um novo orçamento em rascunho com numeração sequencial do tenant
// @Tags quotes
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param quote body dto.QuoteRequest true "Dados do orçamento"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes [post]
func (c *QuoteController) Create(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)

	var request dto.QuoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	number, err := c.quoteRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	q, err := quote.NewQuote(tenantID, userID, number, request.CompanyID, time.Now().UTC(), request.ValidUntil, dto.ToLineItems(request.Items), request.TaxRate, request.Notes)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.quoteRepository.Save(ctx.Request.Context(), q); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToQuoteResponse(q))
}

// Get busca um orçamento pelo ID
// @Summary Busca um orçamento
// @Description Busca um orçamento pelo ID no tenant atual
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id} [get]
func (c *QuoteController) Get(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToQuoteResponse(q))
}

// List lista os orçamentos do tenant
// @Summary Lista orçamentos
// @Description Lista os orçamentos do tenant atual, com filtro opcional por status ou empresa
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param status query string false "Filtro por status"
// @Param company_id query string false "Filtro por empresa"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.QuoteListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes [get]
func (c *QuoteController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	pagination := getPaginationParams(ctx)

	var quotes []*quote.Quote
	var err error

	switch {
	case ctx.Query("status") != "":
		quotes, err = c.quoteRepository.FindByStatus(ctx.Request.Context(), tenantID, quote.Status(ctx.Query("status")), pagination.PageSize, pagination.Offset())
	case ctx.Query("company_id") != "":
		quotes, err = c.quoteRepository.FindByCompany(ctx.Request.Context(), tenantID, ctx.Query("company_id"), pagination.PageSize, pagination.Offset())
	default:
		quotes, err = c.quoteRepository.List(ctx.Request.Context(), tenantID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	totalCount, err := c.quoteRepository.CountByTenant(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToQuoteListResponse(quotes, totalCount, pagination.Page, pagination.PageSize))
}

// UpdateItems substitui os itens de um orçamento em rascunho
// @Summary Atualiza os itens de um orçamento
// @Description Substitui os itens e recalcula os totais; permitido somente em rascunho
// @Tags quotes
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Param items body dto.QuoteItemsRequest true "Itens do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/items [put]
func (c *QuoteController) UpdateItems(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	var request dto.QuoteItemsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := q.UpdateItems(userID, dto.ToLineItems(request.Items), request.TaxRate); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.quoteRepository.Save(ctx.Request.Context(), q); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToQuoteResponse(q))
}

// Send envia um orçamento ao cliente
// @Summary Envia um orçamento
// @Description Transiciona o orçamento de rascunho para enviado
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/send [post]
func (c *QuoteController) Send(ctx *gin.Context) {
	c.transition(ctx, func(q *quote.Quote, userID string) error {
		return q.Send(userID)
	}, notifier.TemplateQuoteSent)
}

// Accept marca um orçamento como aceito pelo cliente
// @Summary Aceita um orçamento
// @Description Transiciona o orçamento de enviado para aceito
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/accept [post]
func (c *QuoteController) Accept(ctx *gin.Context) {
	c.transition(ctx, func(q *quote.Quote, userID string) error {
		return q.Accept(userID)
	}, notifier.TemplateQuoteAccepted)
}

// Reject marca um orçamento como rejeitado pelo cliente
// @Summary Rejeita um orçamento
// @Description Transiciona o orçamento de enviado para rejeitado
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/reject [post]
func (c *QuoteController) Reject(ctx *gin.Context) {
	c.transition(ctx, func(q *quote.Quote, userID string) error {
		return q.Reject(userID)
	}, notifier.TemplateQuoteRejected)
}

// Expire marca um orçamento como expirado
// @Summary Expira um orçamento
// @Description Transiciona o orçamento de enviado para expirado
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/expire [post]
func (c *QuoteController) Expire(ctx *gin.Context) {
	c.transition(ctx, func(q *quote.Quote, userID string) error {
		return q.Expire(userID)
	}, "")
}

// transition aplica uma transição de status ao orçamento e dispara a
// notificação correspondente quando houver
func (c *QuoteController) transition(ctx *gin.Context, fn func(*quote.Quote, string) error, templateKey string) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := fn(q, userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.quoteRepository.Save(ctx.Request.Context(), q); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if templateKey != "" {
		notifier.Dispatch(c.notifier, c.logger, tenantID, templateKey, map[string]interface{}{
			"quote_id":     q.ID,
			"quote_number": q.QuoteNumber,
			"company_id":   q.CompanyID,
			"total":        q.Total.String(),
		})
	}

	ctx.JSON(http.StatusOK, dto.ToQuoteResponse(q))
}

// ConvertToInvoice converte um orçamento aceito em fatura
// @Summary Converte um orçamento em fatura
// @Description Cria uma fatura em rascunho a partir de um orçamento aceito, copiando itens e totais
// @Tags quotes
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Param conversion body dto.QuoteConvertRequest true "Dados da conversão"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/convert-to-invoice [post]
func (c *QuoteController) ConvertToInvoice(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	var request dto.QuoteConvertRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	number, err := c.invoiceRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	inv, err := invoice.NewFromQuote(q, userID, number, request.DueDate)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.invoiceRepository.Save(ctx.Request.Context(), inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateInvoiceCreated, map[string]interface{}{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"quote_id":       q.ID,
		"total":          inv.Total.String(),
	})

	ctx.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// ConvertToOrder converte um orçamento aceito em pedido
// @Summary Converte um orçamento em pedido
// @Description Cria um pedido pendente a partir de um orçamento aceito, copiando itens e totais
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 201 {object} dto.OrderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/convert-to-order [post]
func (c *QuoteController) ConvertToOrder(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	number, err := c.orderRepository.NextNumber(ctx.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	o, err := order.NewFromQuote(q, userID, number)
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

// History lista o histórico de eventos de um orçamento
// @Summary Histórico de um orçamento
// @Description Lista o histórico completo de eventos do orçamento em ordem de versão
// @Tags quotes
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.EventListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes/{id}/history [get]
func (c *QuoteController) History(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	events, err := c.eventStore.Load(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	if len(events) == 0 {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Orçamento não encontrado", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventListResponse(events))
}

// Pdf baixa o orçamento renderizado em PDF
// @Summary Baixa o PDF de um orçamento
// @Description Renderiza o orçamento em PDF pelo serviço de renderização configurado
// @Tags quotes
// @Produce application/pdf
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do orçamento"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /quotes/{id}/pdf [get]
func (c *QuoteController) Pdf(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	id := ctx.Param("id")

	q, err := c.quoteRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	respondPdf(ctx, c.renderer, tenantID, renderer.KindQuote, q.ID, q.QuoteNumber+".pdf")
}
