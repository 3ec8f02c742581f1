package repository

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// Los Get* devuelven (nil, nil) cuando no existe la fila.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Tenant, error)
	GetByName(ctx context.Context, name string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	ListSummaries(ctx context.Context, limit, offset int) ([]*entity.TenantSummary, error)
}
