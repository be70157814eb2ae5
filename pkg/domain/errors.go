package domain

import (
	"errors"
	"fmt"
)

// Códigos estáveis retornados para a camada de API
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBusinessRule = "BUSINESS_RULE_VIOLATION"
	CodeConflict     = "CONCURRENCY_CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error representa um erro de domínio com código legível por máquina,
// distinto de falhas de infraestrutura
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implementa a interface error
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation cria um erro de validação de entrada
func NewValidation(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// NewBusinessRule cria um erro de violação de regra de negócio
func NewBusinessRule(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeBusinessRule, Message: message, Details: details}
}

// NewConflict cria um erro de conflito de concorrência (versão desatualizada)
func NewConflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewNotFound cria um erro de recurso não encontrado. Divergência de tenant
// também é reportada como não encontrado para não vazar existência
func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// CodeOf retorna o código do erro de domínio, ou CodeInternal para
// erros de infraestrutura
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsValidation verifica se o erro é de validação
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsBusinessRule verifica se o erro é de regra de negócio
func IsBusinessRule(err error) bool {
	return CodeOf(err) == CodeBusinessRule
}

// IsConflict verifica se o erro é de conflito de concorrência
func IsConflict(err error) bool {
	return CodeOf(err) == CodeConflict
}

// IsNotFound verifica se o erro é de recurso não encontrado
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
