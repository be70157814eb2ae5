package notifier

import (
	"context"

	"github.com/vendaflow/crm-backend/pkg/logger"
)

// Chaves de template usadas pelos controllers ao disparar notificações
const (
	TemplateQuoteSent         = "quote_sent"
	TemplateQuoteAccepted     = "quote_accepted"
	TemplateQuoteRejected     = "quote_rejected"
	TemplateInvoiceCreated    = "invoice_created"
	TemplateInvoiceSent       = "invoice_sent"
	TemplateInvoicePaid       = "invoice_paid"
	TemplateInvoiceOverdue    = "invoice_overdue"
	TemplateDeliveryShipped   = "delivery_shipped"
	TemplateDeliveryDelivered = "delivery_delivered"
)

// Notifier define o contrato do serviço externo de email/notificação.
// O envio é melhor esforço: uma falha nunca desfaz a transição que o disparou
type Notifier interface {
	Send(ctx context.Context, tenantID, templateKey string, payload map[string]interface{}) error
}

// LogNotifier é uma implementação de Notifier que apenas registra o envio.
// Útil em desenvolvimento e testes; em produção é substituída pelo
// serviço de email real
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier cria uma nova instância de LogNotifier
func NewLogNotifier(logger logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send registra a notificação no log
func (n *LogNotifier) Send(ctx context.Context, tenantID, templateKey string, payload map[string]interface{}) error {
	n.logger.Info("notificação enviada", "tenant_id", tenantID, "template", templateKey, "payload", payload)
	return nil
}

// Dispatch dispara a notificação em segundo plano (fire-and-forget).
// Erros são registrados e descartados
func Dispatch(n Notifier, log logger.Logger, tenantID, templateKey string, payload map[string]interface{}) {
	go func() {
		if err := n.Send(context.Background(), tenantID, templateKey, payload); err != nil {
			log.Warn("falha ao enviar notificação", "template", templateKey, "error", err)
		}
	}()
}
