package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vendaflow/crm-backend/internal/adapter/api/dto"
	"github.com/vendaflow/crm-backend/pkg/domain"
	"github.com/vendaflow/crm-backend/pkg/renderer"
)

// respondDomainError converte um erro de domínio na resposta HTTP
// correspondente. Erros que não são de domínio viram 500 sem vazar detalhes
// de infraestrutura
func respondDomainError(ctx *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			http.StatusInternalServerError,
			"Erro interno",
			err.Error(),
		))
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeBusinessRule:
		status = http.StatusUnprocessableEntity
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeNotFound:
		status = http.StatusNotFound
	}

	response := dto.ErrorResponse{
		Code:    status,
		Message: de.Message,
		Details: de.Code,
		Fields:  de.Details,
	}
	ctx.JSON(status, response)
}

// getPaginationParams extrai os parâmetros de paginação da query string
func getPaginationParams(ctx *gin.Context) dto.Pagination {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	return dto.GetPagination(page, pageSize)
}

// respondPdf renderiza o documento e responde com o PDF gerado.
// Quando nenhum serviço de renderização está configurado, responde 503
func respondPdf(ctx *gin.Context, r renderer.Renderer, tenantID string, kind renderer.DocumentKind, documentID, filename string) {
	pdf, err := r.Render(ctx.Request.Context(), tenantID, kind, documentID)
	if err != nil {
		if errors.Is(err, renderer.ErrRendererUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "Serviço de renderização indisponível", err.Error()))
			return
		}
		respondDomainError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}
