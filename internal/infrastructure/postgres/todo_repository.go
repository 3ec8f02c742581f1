package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

var _ repository.TodoRepository = (*TodoRepo)(nil)

const todoColumns = `id, tenant_id, user_id, title, description, status, is_deleted, deleted_at, created_at, updated_at`

// TodoRepo implementación del puerto TodoRepository sobre PostgreSQL.
type TodoRepo struct {
	q Querier
}

// NewTodoRepository construye el adaptador.
func NewTodoRepository(q Querier) *TodoRepo {
	return &TodoRepo{q: q}
}

// Create persiste una tarea.
func (r *TodoRepo) Create(ctx context.Context, t *entity.Todo) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO todos (`+todoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.TenantID, t.UserID, t.Title, t.Description, t.Status, t.IsDeleted, t.DeletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Get obtiene una tarea no eliminada del dueño.
func (r *TodoRepo) Get(ctx context.Context, tenantID, userID, id string) (*entity.Todo, error) {
	if !validIDs(tenantID, userID, id) {
		return nil, nil
	}
	t, err := scanTodo(r.q.QueryRow(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3 AND is_deleted = FALSE`, id, tenantID, userID))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// List lista las tareas no eliminadas del dueño, más recientes primero.
func (r *TodoRepo) List(ctx context.Context, tenantID, userID string) ([]*entity.Todo, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE tenant_id = $1 AND user_id = $2 AND is_deleted = FALSE
		ORDER BY created_at DESC, id`, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update actualiza la tarea respetando su dueño.
func (r *TodoRepo) Update(ctx context.Context, t *entity.Todo) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE todos SET title = $4, description = $5, status = $6, is_deleted = $7, deleted_at = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3`,
		t.ID, t.TenantID, t.UserID, t.Title, t.Description, t.Status, t.IsDeleted, t.DeletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTodo(row rowScanner) (*entity.Todo, error) {
	var t entity.Todo
	if err := row.Scan(&t.ID, &t.TenantID, &t.UserID, &t.Title, &t.Description, &t.Status,
		&t.IsDeleted, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
