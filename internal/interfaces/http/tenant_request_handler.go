package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
)

// TenantRequestHandler solicitudes de tenant: alta pública, revisión y alta directa.
type TenantRequestHandler struct {
	uc *tenancy.UseCase
}

// NewTenantRequestHandler construye el handler.
func NewTenantRequestHandler(uc *tenancy.UseCase) *TenantRequestHandler {
	return &TenantRequestHandler{uc: uc}
}

// Submit godoc
// @Summary      Solicitar un tenant
// @Description  Crea el usuario solicitante (sin tenant) y una solicitud pendiente.
// @Tags         tenant-requests
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitTenantRequest  true  "Nombre del tenant y credenciales"
// @Success      201   {object}  dto.TenantRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /tenant-requests [post]
func (h *TenantRequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.uc.SubmitRequest(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toTenantRequestResponse(req))
}

// Review godoc
// @Summary      Revisar solicitud
// @Description  Aprueba (crea tenant y tenantAdmin) o rechaza una solicitud pendiente.
// @Tags         tenant-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReviewRequest  true  "requestId y action (approved|rejected)"
// @Success      200   {object}  dto.TenantRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tenant-requests/review-request [put]
func (h *TenantRequestHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.uc.ReviewRequest(c.UserContext(), mustPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.JSON(toTenantRequestResponse(req))
}

// DirectCreate godoc
// @Summary      Crear tenant directamente
// @Tags         tenant-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DirectCreateRequest  true  "Nombre del tenant y email del administrador"
// @Success      201   {object}  dto.DirectCreateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /tenant-requests/create-tenant [post]
func (h *TenantRequestHandler) DirectCreate(c *fiber.Ctx) error {
	var in dto.DirectCreateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.DirectCreate(c.UserContext(), mustPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DirectCreateResponse{
		Tenant:  toTenantResponse(res.Tenant),
		User:    *auth.ToUserResponse(res.User),
		Request: toTenantRequestResponse(res.Request),
	})
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         tenant-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending|approved|rejected"
// @Param        limit   query     int     false  "Límite"  default(20)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.TenantRequestListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /tenant-requests [get]
func (h *TenantRequestHandler) List(c *fiber.Ctx) error {
	var in dto.TenantRequestFilter
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	in.DefaultPage()
	list, total, err := h.uc.ListRequests(c.UserContext(), mustPrincipal(c), in)
	if err != nil {
		return err
	}
	items := make([]dto.TenantRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toTenantRequestResponse(r))
	}
	return c.JSON(dto.TenantRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// Get godoc
// @Summary      Detalle de solicitud
// @Description  Incluye el historial de auditoría de la solicitud.
// @Tags         tenant-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.TenantRequestDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tenant-requests/{id} [get]
func (h *TenantRequestHandler) Get(c *fiber.Ctx) error {
	req, history, err := h.uc.GetRequest(c.UserContext(), mustPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	out := dto.TenantRequestDetailResponse{
		TenantRequestResponse: toTenantRequestResponse(req),
		History:               make([]dto.AuditLogResponse, 0, len(history)),
	}
	for _, l := range history {
		out.History = append(out.History, toAuditLogResponse(l))
	}
	return c.JSON(out)
}
