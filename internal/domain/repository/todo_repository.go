package repository

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TodoRepository puerto de persistencia de tareas. Todas las consultas van acotadas
// por (tenant_id, user_id) e ignoran tareas eliminadas.
type TodoRepository interface {
	Create(ctx context.Context, todo *entity.Todo) error
	Get(ctx context.Context, tenantID, userID, id string) (*entity.Todo, error)
	List(ctx context.Context, tenantID, userID string) ([]*entity.Todo, error)
	Update(ctx context.Context, todo *entity.Todo) error
}
