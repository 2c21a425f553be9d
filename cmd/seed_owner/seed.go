package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/app"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

type result struct {
	OwnerID      string
	OwnerCreated bool
	Imported     int
	Skipped      int
}

// seed garantiza el Owner y da de alta las filas del CSV actuando como él.
// Volver a ejecutarlo con las mismas credenciales no duplica nada.
func seed(ctx context.Context, c *app.Container, identities repository.IdentityProvider, email, password string, rows []dto.CreateUserRequest, log zerolog.Logger) (result, error) {
	var res result

	owner, err := identities.Authenticate(ctx, email, password)
	if err != nil {
		return res, fmt.Errorf("autenticar owner: %w", err)
	}
	if owner != nil && owner.Role != entity.RoleOwner {
		return res, fmt.Errorf("%s ya existe con rol %s", email, owner.Role)
	}

	principal := entity.Principal{Email: email, Role: entity.RoleOwner, IsActive: true}
	if owner != nil {
		principal.ID = owner.ID
		log.Info().Str("owner_id", owner.ID).Msg("owner ya existente")
	} else {
		principal.ID = uuid.New().String()
		if err := c.Users.Initialize(ctx, principal, principal.ID, email, entity.RoleOwner, password); err != nil {
			return res, fmt.Errorf("crear owner: %w", err)
		}
		res.OwnerCreated = true
		log.Info().Str("owner_id", principal.ID).Msg("owner creado")
	}
	res.OwnerID = principal.ID

	for i, row := range rows {
		user, err := c.Users.Create(ctx, principal, row)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
			log.Warn().Str("email", row.Email).Msg("usuario ya existente, se omite")
		case err != nil:
			return res, fmt.Errorf("fila %d (%s): %w", i+2, row.Email, err)
		default:
			res.Imported++
			log.Debug().Str("user_id", user.ID).Str("email", user.Email).Msg("usuario importado")
		}
	}
	return res, nil
}
