package repository

import (
	"context"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

// IdentityProvider puerto del proveedor de identidad: cuentas, claim de rol y estado de acceso.
// SetRole y SetDisabled son operaciones privilegiadas; solo se invocan tras aprobar el guard.
type IdentityProvider interface {
	// ResolveCaller devuelve nil, nil si la identidad no existe.
	ResolveCaller(ctx context.Context, id string) (*entity.Identity, error)
	SetRole(ctx context.Context, id string, role entity.Role) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	// Create registra una identidad; devuelve domain.ErrAlreadyExists si el id o el email ya existen.
	Create(ctx context.Context, identity entity.Identity, password string) error
	// Authenticate verifica credenciales; devuelve nil, nil si no coinciden.
	Authenticate(ctx context.Context, email, password string) (*entity.Identity, error)
}
