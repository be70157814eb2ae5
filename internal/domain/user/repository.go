package user

import (
	"context"
)

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// Create cria um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID, restrito ao tenant
	FindByID(ctx context.Context, tenantID, id string) (*User, error)

	// FindByEmail busca um usuário pelo email
	FindByEmail(ctx context.Context, tenantID, email string) (*User, error)

	// List lista os usuários de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*User, error)

	// Update atualiza os dados de um usuário existente
	Update(ctx context.Context, u *User) error
}
