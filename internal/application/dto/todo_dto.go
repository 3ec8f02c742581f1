package dto

import "time"

// CreateTodoRequest alta de una tarea.
type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// UpdateTodoRequest actualización parcial de una tarea.
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// TodoResponse salida de una tarea.
type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
