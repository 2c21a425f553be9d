// @title           HelioSuite API
// @version         1.0
// @description     API del back office de HelioSuite: usuarios, roles, clientes, trabajos, productos, propuestas y registro de actividad.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/heliosuite-api/docs"
	"github.com/jhoicas/heliosuite-api/internal/app"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/heliosuite-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/heliosuite-api/internal/interfaces/http"
	"github.com/jhoicas/heliosuite-api/pkg/config"
	"github.com/jhoicas/heliosuite-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var (
		store      repository.DocumentStore
		identities repository.IdentityProvider
	)
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		store = memory.NewDocumentStore()
		identities = memory.NewIdentityProvider()
	default:
		pool, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store = postgres.NewDocumentStore(pool)
		identities = postgres.NewIdentityProvider(pool)
	}

	// Numeración: INCR en Redis si está configurado; si no, último registro persistido.
	var numbers numbering.Generator = numbering.NewLastRecord(store)
	if cfg.Redis.Enabled() {
		client, err := infraredis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		numbers = infraredis.NewCounter(client, numbering.NewLastRecord(store))
		log.Info().Msg("numeración secuencial sobre Redis")
	}

	container := app.New(app.Options{
		Store:      store,
		Identities: identities,
		Numbers:    numbers,
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	})

	fapp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	fapp.Use(recover.New())
	fapp.Use(requestid.New())

	docs.SwaggerInfo.Host = cfg.HTTP.Addr()

	// Swagger UI en local: http://localhost:<port>/docs
	fapp.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "HelioSuite API",
	}))

	fapp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Backend})
	})

	httpRouter.Router(fapp, httpRouter.RouterDeps{
		App:       container,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := fapp.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fapp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
