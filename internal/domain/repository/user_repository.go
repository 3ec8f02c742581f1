package repository

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User y sus asignaciones de rol.
// Los Get* cargan también User.Roles y devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca en todos los tenants, incluidos usuarios eliminados.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetActiveByEmailAndTenant ignora usuarios eliminados.
	GetActiveByEmailAndTenant(ctx context.Context, email, tenantID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ReplaceRoles borra todas las asignaciones del usuario y crea exactamente las dadas.
	ReplaceRoles(ctx context.Context, userID string, roles entity.RoleSet) error
	// ListByTenant lista usuarios del tenant excluyendo a quienes tengan el rol excluded ("" = ninguno).
	ListByTenant(ctx context.Context, tenantID string, excluded entity.Role) ([]*entity.User, error)
}
