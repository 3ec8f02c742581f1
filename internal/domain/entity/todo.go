package entity

import "time"

// Estados válidos de un Todo.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// Todo tarea personal de un usuario dentro de su tenant.
type Todo struct {
	ID          string
	TenantID    string
	UserID      string
	Title       string
	Description string
	Status      string
	IsDeleted   bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidTodoStatus informa si s es un estado permitido.
func ValidTodoStatus(s string) bool {
	return s == TodoPending || s == TodoInProgress || s == TodoCompleted
}
