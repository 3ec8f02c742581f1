package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/application/usecase"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	TenancyUC *tenancy.UseCase
	TodoUC    *usecase.TodoUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Las rutas estáticas de /tenant-requests se registran
// antes que las de /:id para que Fiber no las capture como parámetro.
func Router(app *fiber.App, deps RouterDeps) {
	authMW := AuthMiddleware(deps.JWTSecret)
	superAdmin := RequireRole(entity.RoleSuperAdmin)
	tenantAdmin := RequireRole(entity.RoleTenantAdmin)
	tenantManager := RequireRole(entity.RoleTenantAdmin, entity.RoleSuperAdmin)

	api := app.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Patch("/change-password", authMW, authHandler.ChangePassword)

	// Todos (sólo rol user)
	todos := api.Group("/todos", authMW, RequireRole(entity.RoleUser))
	todoHandler := NewTodoHandler(deps.TodoUC)
	todos.Get("/", todoHandler.List)
	todos.Post("/", todoHandler.Create)
	todos.Get("/:id", todoHandler.Get)
	todos.Put("/:id", todoHandler.Update)
	todos.Delete("/:id", todoHandler.Delete)

	// Tenant requests
	tr := app.Group("/tenant-requests")
	requestHandler := NewTenantRequestHandler(deps.TenancyUC)
	tenantHandler := NewTenantHandler(deps.TenancyUC)
	userHandler := NewTenantUserHandler(deps.TenancyUC)

	// públicas
	tr.Post("/", requestHandler.Submit)
	tr.Post("/register-user", userHandler.Register)

	// tenantAdmin / superAdmin
	tr.Post("/add-tenant-user", authMW, tenantManager, userHandler.Add)
	tr.Get("/users/:tenantId", authMW, tenantManager, userHandler.List)

	// tenantAdmin
	tr.Put("/tenant-users/:userId/activate", authMW, tenantAdmin, userHandler.Activate)
	tr.Put("/tenant-users/:userId/deactivate", authMW, tenantAdmin, userHandler.Deactivate)
	tr.Delete("/tenant-users/:userId", authMW, tenantAdmin, userHandler.Delete)

	// superAdmin
	tr.Put("/review-request", authMW, superAdmin, requestHandler.Review)
	tr.Get("/", authMW, superAdmin, requestHandler.List)
	tr.Get("/all-tenant", authMW, superAdmin, tenantHandler.List)
	tr.Get("/all-tenant/report.pdf", authMW, superAdmin, tenantHandler.Report)
	tr.Post("/create-tenant", authMW, superAdmin, requestHandler.DirectCreate)
	tr.Get("/:id", authMW, superAdmin, requestHandler.Get)
	tr.Delete("/:id", authMW, superAdmin, tenantHandler.Delete)
	tr.Put("/:id/activate", authMW, superAdmin, tenantHandler.Activate)
	tr.Put("/:id/deactivate", authMW, superAdmin, tenantHandler.Deactivate)
}
