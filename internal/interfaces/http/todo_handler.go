package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/usecase"
)

// TodoHandler tareas personales del usuario autenticado.
type TodoHandler struct {
	uc *usecase.TodoUseCase
}

// NewTodoHandler construye el handler.
func NewTodoHandler(uc *usecase.TodoUseCase) *TodoHandler {
	return &TodoHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tarea
// @Tags         todos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Datos de la tarea"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTodoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), mustPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tareas
// @Tags         todos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TodoResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), mustPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener tarea
// @Tags         todos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la tarea"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), mustPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tarea
// @Tags         todos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la tarea"
// @Param        body  body      dto.UpdateTodoRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTodoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), mustPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tarea
// @Tags         todos
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tarea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), mustPrincipal(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
