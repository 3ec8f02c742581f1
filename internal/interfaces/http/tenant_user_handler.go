package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TenantUserHandler usuarios dentro de un tenant.
type TenantUserHandler struct {
	uc *tenancy.UseCase
}

// NewTenantUserHandler construye el handler.
func NewTenantUserHandler(uc *tenancy.UseCase) *TenantUserHandler {
	return &TenantUserHandler{uc: uc}
}

// Add godoc
// @Summary      Invitar usuario al tenant
// @Description  Idempotente: si el email ya pertenece al tenant se devuelve el usuario existente con created=false.
// @Tags         tenant-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddTenantUserRequest  true  "tenantId, email y rol"
// @Success      201   {object}  dto.AddTenantUserResponse
// @Success      200   {object}  dto.AddTenantUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /tenant-requests/add-tenant-user [post]
func (h *TenantUserHandler) Add(c *fiber.Ctx) error {
	var in dto.AddTenantUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, created, err := h.uc.AddUserUnderTenant(c.UserContext(), mustPrincipal(c), in)
	if err != nil {
		return err
	}
	out := dto.AddTenantUserResponse{User: *auth.ToUserResponse(user), Created: created}
	if !created {
		out.Message = "el usuario ya pertenece al tenant"
		return c.JSON(out)
	}
	out.Message = "usuario creado"
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Register godoc
// @Summary      Registrarse en un tenant
// @Description  Auto-registro público bajo un tenant existente y no eliminado.
// @Tags         tenant-users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterTenantUserRequest  true  "Tenant y credenciales"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tenant-requests/register-user [post]
func (h *TenantUserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterTenantUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.RegisterUserUnderTenant(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(auth.ToUserResponse(user))
}

// List godoc
// @Summary      Usuarios del tenant
// @Description  Excluye a los tenantAdmin.
// @Tags         tenant-users
// @Security     Bearer
// @Produce      json
// @Param        tenantId  path      string  true  "ID del tenant"
// @Success      200       {array}   dto.UserResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /tenant-requests/users/{tenantId} [get]
func (h *TenantUserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.ListTenantUsers(c.UserContext(), mustPrincipal(c), c.Params("tenantId"))
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activar usuario
// @Tags         tenant-users
// @Security     Bearer
// @Produce      json
// @Param        userId  path      string  true  "ID del usuario"
// @Success      200     {object}  dto.UserResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /tenant-requests/tenant-users/{userId}/activate [put]
func (h *TenantUserHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.ActivateUser)
}

// Deactivate godoc
// @Summary      Desactivar usuario
// @Tags         tenant-users
// @Security     Bearer
// @Produce      json
// @Param        userId  path      string  true  "ID del usuario"
// @Success      200     {object}  dto.UserResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /tenant-requests/tenant-users/{userId}/deactivate [put]
func (h *TenantUserHandler) Deactivate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.DeactivateUser)
}

// Delete godoc
// @Summary      Eliminar usuario (lógico)
// @Tags         tenant-users
// @Security     Bearer
// @Produce      json
// @Param        userId  path      string  true  "ID del usuario"
// @Success      200     {object}  dto.UserResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /tenant-requests/tenant-users/{userId} [delete]
func (h *TenantUserHandler) Delete(c *fiber.Ctx) error {
	return h.transition(c, h.uc.SoftDeleteUser)
}

func (h *TenantUserHandler) transition(c *fiber.Ctx, op func(context.Context, entity.Principal, string) (*entity.User, error)) error {
	u, err := op(c.UserContext(), mustPrincipal(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(auth.ToUserResponse(u))
}
