// seed_owner crea el primer Owner (SEED_OWNER_EMAIL / SEED_OWNER_PASSWORD) y, opcionalmente,
// importa usuarios desde un CSV con cabecera email,firstName,lastName,phone,role[,password].
//
// Uso: go run ./cmd/seed_owner [usuarios.csv]
// Todo se escribe en una única transacción: si una fila falla por algo distinto de un duplicado,
// no queda nada a medias.
package main

import (
	"context"
	"os"

	"github.com/jhoicas/heliosuite-api/internal/app"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/postgres"
	"github.com/jhoicas/heliosuite-api/pkg/config"
	"github.com/jhoicas/heliosuite-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.Seed.OwnerEmail == "" || cfg.Seed.OwnerPassword == "" {
		log.Fatal().Msg("SEED_OWNER_EMAIL y SEED_OWNER_PASSWORD son obligatorios")
	}
	if cfg.Store.Backend != config.BackendPostgres {
		log.Fatal().Str("store", cfg.Store.Backend).Msg("seed_owner solo tiene sentido con STORE_BACKEND=postgres")
	}

	var rows []dto.CreateUserRequest
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatal().Err(err).Str("file", os.Args[1]).Msg("abrir CSV de usuarios")
		}
		rows, err = readUsers(f)
		_ = f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV de usuarios")
		}
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var res result
	err = postgres.NewTxRunner(pool).Run(ctx, func(store *postgres.DocumentStore, identities *postgres.IdentityProvider) error {
		container := app.New(app.Options{
			Store:      store,
			Identities: identities,
			JWT:        auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		})
		var err error
		res, err = seed(ctx, container, identities, cfg.Seed.OwnerEmail, cfg.Seed.OwnerPassword, rows, log.Component("seed"))
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Str("owner_id", res.OwnerID).
		Bool("owner_created", res.OwnerCreated).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("seed completado")
}
