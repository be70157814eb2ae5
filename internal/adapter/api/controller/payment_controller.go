package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/internal/domain/invoice"
	"github.com/vendaflow/crm-backend/internal/domain/payment"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/logger"
	"github.com/vendaflow/crm-backend/pkg/notifier"
	"github.com/vendaflow/crm-backend/pkg/tenant"
)

// PaymentController gerencia as requisições relacionadas aos pagamentos
type PaymentController struct {
	paymentRepository payment.Repository
	invoiceRepository invoice.Repository
	ledger            *payment.Ledger
	notifier          notifier.Notifier
	logger            logger.Logger
}

// NewPaymentController cria uma nova instância de PaymentController
func NewPaymentController(paymentRepository payment.Repository, invoiceRepository invoice.Repository, ledger *payment.Ledger, n notifier.Notifier, logger logger.Logger) *PaymentController {
	return &PaymentController{
		paymentRepository: paymentRepository,
		invoiceRepository: invoiceRepository,
		ledger:            ledger,
		notifier:          n,
		logger:            logger,
	}
}

// Record registra um pagamento contra uma fatura
// @Summary Registra um pagamento
// @Description Registra um pagamento contra o saldo devedor da fatura; sobrepagamento é rejeitado
// @Tags payments
// @Accept json
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Param payment body dto.PaymentRequest true "Dados do pagamento"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/payments [post]
func (c *PaymentController) Record(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	invoiceID := ctx.Param("id")

	var request dto.PaymentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, invoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	p, err := payment.NewPayment(tenantID, userID, invoiceID, request.Amount, payment.Method(request.Method), request.PaymentDate, request.Reference, request.TransactionID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.ledger.Record(inv, p, userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.paymentRepository.Record(ctx.Request.Context(), p, inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if inv.Status == invoice.StatusPaid {
		notifier.Dispatch(c.notifier, c.logger, tenantID, notifier.TemplateInvoicePaid, map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"company_id":     inv.CompanyID,
			"total":          inv.Total.String(),
		})
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentResponse(p))
}

// List lista os pagamentos de uma fatura
// @Summary Lista pagamentos de uma fatura
// @Description Lista os pagamentos registrados contra uma fatura
// @Tags payments
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID da fatura"
// @Success 200 {object} dto.PaymentListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invoices/{id}/payments [get]
func (c *PaymentController) List(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	invoiceID := ctx.Param("id")

	payments, err := c.paymentRepository.ListByInvoice(ctx.Request.Context(), tenantID, invoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentListResponse(payments))
}

// Refund estorna um pagamento
// @Summary Estorna um pagamento
// @Description Estorna um pagamento concluído, devolvendo seu valor ao saldo devedor da fatura
// @Tags payments
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pagamento"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/{id}/refund [post]
func (c *PaymentController) Refund(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	p, err := c.paymentRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, p.InvoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.ledger.Refund(inv, p, userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.paymentRepository.Refund(ctx.Request.Context(), p, inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

// Delete exclui um pagamento do histórico
// @Summary Exclui um pagamento
// @Description Remove um pagamento concluído com o mesmo efeito de saldo do estorno; prefira o estorno
// @Tags payments
// @Produce json
// @Param tenant-id header string true "ID do tenant"
// @Param id path string true "ID do pagamento"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/{id} [delete]
func (c *PaymentController) Delete(ctx *gin.Context) {
	tenantID := tenant.GetTenantID(ctx)
	userID := auth.GetCurrentUserID(ctx)
	id := ctx.Param("id")

	p, err := c.paymentRepository.FindByID(ctx.Request.Context(), tenantID, id)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	inv, err := c.invoiceRepository.FindByID(ctx.Request.Context(), tenantID, p.InvoiceID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.ledger.Delete(inv, p, userID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	if err := c.paymentRepository.Delete(ctx.Request.Context(), p.ID, inv); err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Pagamento excluído com sucesso", nil))
}
