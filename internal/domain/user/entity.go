package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyName       = errors.New("nome não pode ser vazio")
	ErrEmptyEmail      = errors.New("email não pode ser vazio")
	ErrWeakPassword    = errors.New("senha deve ter no mínimo 8 caracteres")
	ErrInvalidPassword = errors.New("senha inválida")
	ErrUserNotActive   = errors.New("usuário não está ativo")
)

// Role define o papel do usuário no tenant
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleSalesperson Role = "salesperson"
)

// User representa um usuário de um tenant
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser cria um novo usuário com a senha criptografada
func NewUser(tenantID, name, email, password string, role Role) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if role == "" {
		role = RoleSalesperson
	}

	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	return u, nil
}

// SetPassword criptografa e define a senha do usuário
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword verifica se a senha informada confere com a armazenada
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// Deactivate desativa o usuário
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now().UTC()
}
