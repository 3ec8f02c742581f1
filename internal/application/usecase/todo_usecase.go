package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

const maxTodoTitle = 255

// TodoUseCase CRUD de tareas personales. Sólo el rol "user" tiene tareas y todas las
// operaciones quedan acotadas a (tenant, usuario) del principal.
type TodoUseCase struct {
	repo repository.TodoRepository
}

// NewTodoUseCase construye el caso de uso.
func NewTodoUseCase(repo repository.TodoRepository) *TodoUseCase {
	return &TodoUseCase{repo: repo}
}

func checkOwner(p entity.Principal) error {
	if !p.Is(entity.RoleUser) || p.TenantID == "" {
		return domain.ErrForbidden
	}
	return nil
}

// Create crea una tarea.
func (uc *TodoUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateTodoRequest) (*dto.TodoResponse, error) {
	if err := checkOwner(p); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.TodoPending
	}
	if !entity.ValidTodoStatus(status) {
		return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, status)
	}
	now := time.Now().UTC()
	todo := &entity.Todo{
		ID:          uuid.New().String(),
		TenantID:    p.TenantID,
		UserID:      p.UserID,
		Title:       title,
		Description: in.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

// Get obtiene una tarea propia.
func (uc *TodoUseCase) Get(ctx context.Context, p entity.Principal, id string) (*dto.TodoResponse, error) {
	todo, err := uc.find(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

// List lista las tareas del principal, más recientes primero.
func (uc *TodoUseCase) List(ctx context.Context, p entity.Principal) ([]dto.TodoResponse, error) {
	if err := checkOwner(p); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, p.TenantID, p.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TodoResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTodoResponse(t))
	}
	return items, nil
}

// Update actualiza campos de una tarea propia.
func (uc *TodoUseCase) Update(ctx context.Context, p entity.Principal, id string, in dto.UpdateTodoRequest) (*dto.TodoResponse, error) {
	todo, err := uc.find(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		todo.Title = title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Status != nil {
		if !entity.ValidTodoStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, *in.Status)
		}
		todo.Status = *in.Status
	}
	todo.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

// Delete elimina lógicamente una tarea propia.
func (uc *TodoUseCase) Delete(ctx context.Context, p entity.Principal, id string) error {
	todo, err := uc.find(ctx, p, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	todo.IsDeleted = true
	todo.DeletedAt = &now
	todo.UpdatedAt = now
	return uc.repo.Update(ctx, todo)
}

func (uc *TodoUseCase) find(ctx context.Context, p entity.Principal, id string) (*entity.Todo, error) {
	if err := checkOwner(p); err != nil {
		return nil, err
	}
	todo, err := uc.repo.Get(ctx, p.TenantID, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, domain.ErrNotFound
	}
	return todo, nil
}

func validateTitle(title string) error {
	if title == "" || len(title) > maxTodoTitle {
		return fmt.Errorf("%w: el título es obligatorio (máximo %d caracteres)", domain.ErrInvalidInput, maxTodoTitle)
	}
	return nil
}

func toTodoResponse(t *entity.Todo) *dto.TodoResponse {
	return &dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
