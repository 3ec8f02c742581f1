package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tenancy-api/docs"
	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/application/usecase"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/mail"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Tenancy-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Tenancy-api/internal/interfaces/http"
	"github.com/jhoicas/Tenancy-api/pkg/config"
	"github.com/jhoicas/Tenancy-api/pkg/logger"
	"github.com/jhoicas/Tenancy-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "development-secret"
		log.Warn().Msg("JWT_SECRET vacío, se usa un secreto de desarrollo")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("mail_driver", cfg.Mail.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store ports.Store
	switch cfg.DB.Driver {
	case "memory":
		store = memory.New()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		pgStore, err := postgres.NewStore(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar store")
		}
		store = pgStore
	}

	appMetrics := metrics.New("tenancy")

	renderer, err := mail.NewRenderer(cfg.App.PublicURL, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de correo")
	}
	sender, err := mail.NewSender(cfg.Mail, log.Component("mail"))
	if err != nil {
		log.Fatal().Err(err).Msg("remitente de correo")
	}
	dispatcher := mail.NewDispatcher(renderer, sender, appMetrics, log.Component("mail"), mail.DispatcherConfig{
		QueueSize:   cfg.Mail.QueueSize,
		MaxAttempts: uint(cfg.Mail.MaxAttempts),
		Delay:       time.Second,
	})
	dispatcher.Start(context.WithoutCancel(ctx))

	hasher := password.NewBcryptHasher()
	authUC := auth.NewAuthUseCase(store, hasher, dispatcher, appMetrics, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Zerolog())
	tenancyUC := tenancy.NewUseCase(tenancy.Deps{
		Store:     store,
		Notifier:  dispatcher,
		Hasher:    hasher,
		Generator: password.NewGenerator(),
		Reports:   infrapdf.NewTenantReportGenerator(cfg.App.Name),
		Metrics:   appMetrics,
		Logger:    log.Zerolog(),
	})
	todoUC := usecase.NewTodoUseCase(store.Repos().Todos)

	// Con DB_DRIVER=memory no hay tenantctl: el super admin se siembra al arrancar.
	if cfg.DB.Driver == "memory" && cfg.Seed.SuperAdminEmail != "" {
		if _, _, err := authUC.SeedSuperAdmin(ctx, cfg.Seed.SuperAdminEmail, cfg.Seed.SuperAdminPassword); err != nil {
			log.Fatal().Err(err).Msg("sembrar super admin")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(cfg.App.Env != "production", log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", appMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		TenancyUC: tenancyUC,
		TodoUC:    todoUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Vacía la cola de correos pendientes antes de salir.
	dispatcher.Close()

	log.Info().Msg("aplicación detenida")
}
