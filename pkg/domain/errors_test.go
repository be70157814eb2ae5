package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validação", NewValidation("campo inválido", nil), CodeValidation},
		{"regra de negócio", NewBusinessRule("regra violada", nil), CodeBusinessRule},
		{"conflito", NewConflict("versão desatualizada"), CodeConflict},
		{"não encontrado", NewNotFound("recurso não encontrado"), CodeNotFound},
		{"erro de infraestrutura", errors.New("conexão recusada"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}

func TestCodeOfErroEmbrulhado(t *testing.T) {
	wrapped := fmt.Errorf("erro ao salvar: %w", NewConflict("versão desatualizada"))
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.True(t, IsConflict(wrapped))
}

func TestPredicados(t *testing.T) {
	assert.True(t, IsValidation(NewValidation("x", nil)))
	assert.True(t, IsBusinessRule(NewBusinessRule("x", nil)))
	assert.True(t, IsNotFound(NewNotFound("x")))
	assert.False(t, IsValidation(NewNotFound("x")))
}

func TestErrorString(t *testing.T) {
	err := NewValidation("campo inválido", map[string]interface{}{"field": "name"})
	assert.Contains(t, err.Error(), CodeValidation)
	assert.Contains(t, err.Error(), "campo inválido")

	plain := NewNotFound("recurso não encontrado")
	assert.Equal(t, "NOT_FOUND: recurso não encontrado", plain.Error())
}
