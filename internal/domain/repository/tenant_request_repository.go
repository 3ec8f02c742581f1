package repository

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TenantRequestFilter filtro de listado; Status vacío = todos.
type TenantRequestFilter struct {
	Status entity.RequestStatus
	Limit  int
	Offset int
}

// TenantRequestRepository define el puerto de persistencia para TenantRequest.
type TenantRequestRepository interface {
	Create(ctx context.Context, req *entity.TenantRequest) error
	GetByID(ctx context.Context, id string) (*entity.TenantRequest, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE) para serializar revisiones.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.TenantRequest, error)
	Update(ctx context.Context, req *entity.TenantRequest) error
	ExistsPendingByName(ctx context.Context, tenantName string) (bool, error)
	// LatestByTenantName devuelve la solicitud más reciente para ese nombre (para notificar al dueño).
	LatestByTenantName(ctx context.Context, tenantName string) (*entity.TenantRequest, error)
	List(ctx context.Context, filter TenantRequestFilter) ([]*entity.TenantRequest, int, error)
}
