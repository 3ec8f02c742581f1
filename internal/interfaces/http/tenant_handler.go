package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TenantHandler administración de tenants por el super admin.
type TenantHandler struct {
	uc *tenancy.UseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *tenancy.UseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// List godoc
// @Summary      Listar tenants
// @Description  Incluye email y estado de la última solicitud y el número de usuarios.
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite"  default(20)
// @Param        offset  query     int  false  "Offset"  default(0)
// @Success      200     {object}  dto.TenantListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /tenant-requests/all-tenant [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListTenants(c.UserContext(), mustPrincipal(c), page)
	if err != nil {
		return err
	}
	items := make([]dto.TenantSummaryResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toTenantSummaryResponse(s))
	}
	return c.JSON(dto.TenantListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Report godoc
// @Summary      Reporte PDF de tenants
// @Tags         tenants
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /tenant-requests/all-tenant/report.pdf [get]
func (h *TenantHandler) Report(c *fiber.Ctx) error {
	out, err := h.uc.TenantReport(c.UserContext(), mustPrincipal(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tenants-%s.pdf"`, time.Now().UTC().Format("20060102")))
	return c.Send(out)
}

// Activate godoc
// @Summary      Activar tenant
// @Description  Reactiva un tenant inactivo o restaura uno eliminado.
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tenant-requests/{id}/activate [put]
func (h *TenantHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.ActivateTenant)
}

// Deactivate godoc
// @Summary      Desactivar tenant
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tenant-requests/{id}/deactivate [put]
func (h *TenantHandler) Deactivate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.DeactivateTenant)
}

// Delete godoc
// @Summary      Eliminar tenant (lógico)
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tenant-requests/{id} [delete]
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	return h.transition(c, h.uc.SoftDeleteTenant)
}

type tenantTransition func(ctx context.Context, p entity.Principal, id string) (*entity.Tenant, error)

func (h *TenantHandler) transition(c *fiber.Ctx, op tenantTransition) error {
	t, err := op(c.UserContext(), mustPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toTenantResponse(t))
}
