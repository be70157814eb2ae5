package renderer

import (
	"context"
	"errors"
)

// ErrRendererUnavailable ocorre quando o serviço de renderização não está configurado
var ErrRendererUnavailable = errors.New("serviço de renderização de documentos não disponível")

// DocumentKind identifica o tipo de documento a renderizar
type DocumentKind string

const (
	KindQuote        DocumentKind = "quote"
	KindInvoice      DocumentKind = "invoice"
	KindDeliveryNote DocumentKind = "delivery_note"
)

// Renderer define o contrato do serviço externo de renderização de PDF.
// A renderização é melhor esforço e nunca bloqueia uma transição de estado
type Renderer interface {
	Render(ctx context.Context, tenantID string, kind DocumentKind, documentID string) ([]byte, error)
}

// NoopRenderer é uma implementação de Renderer usada quando nenhum
// serviço de renderização está configurado
type NoopRenderer struct{}

// NewNoopRenderer cria uma nova instância de NoopRenderer
func NewNoopRenderer() *NoopRenderer {
	return &NoopRenderer{}
}

// Render retorna ErrRendererUnavailable
func (r *NoopRenderer) Render(ctx context.Context, tenantID string, kind DocumentKind, documentID string) ([]byte, error) {
	return nil, ErrRendererUnavailable
}
