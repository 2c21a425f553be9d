package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

var _ repository.IdentityProvider = (*IdentityProvider)(nil)

// IdentityProvider identidades y claim de rol sobre la tabla identities. Las contraseñas se guardan
// como hash bcrypt.
type IdentityProvider struct {
	db DBTX
}

// NewIdentityProvider construye el adaptador.
func NewIdentityProvider(db DBTX) *IdentityProvider {
	return &IdentityProvider{db: db}
}

// ResolveCaller devuelve la identidad o nil si no existe.
func (p *IdentityProvider) ResolveCaller(ctx context.Context, id string) (*entity.Identity, error) {
	return p.findOne(ctx, `SELECT id, email, role, disabled FROM identities WHERE id = $1`, id)
}

// SetRole actualiza el claim de rol.
func (p *IdentityProvider) SetRole(ctx context.Context, id string, role entity.Role) error {
	return p.exec(ctx, `UPDATE identities SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
}

// SetDisabled habilita o deshabilita la identidad.
func (p *IdentityProvider) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return p.exec(ctx, `UPDATE identities SET disabled = $2, updated_at = now() WHERE id = $1`, id, disabled)
}

// Create registra la identidad. Sin password la identidad no puede iniciar sesión.
func (p *IdentityProvider) Create(ctx context.Context, identity entity.Identity, password string) error {
	var hash *string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		s := string(h)
		hash = &s
	}
	_, err := p.db.Exec(ctx, `
		INSERT INTO identities (id, email, password_hash, role, disabled)
		VALUES ($1, $2, $3, $4, $5)`,
		identity.ID, normalizeEmail(identity.Email), hash, string(identity.Role), identity.Disabled)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrAlreadyExists, "la identidad o el email ya existen")
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// Authenticate compara la contraseña con el hash bcrypt; nil, nil si no coinciden.
func (p *IdentityProvider) Authenticate(ctx context.Context, email, password string) (*entity.Identity, error) {
	var (
		identity entity.Identity
		role     string
		hash     *string
	)
	err := p.db.QueryRow(ctx,
		`SELECT id, email, role, disabled, password_hash FROM identities WHERE email = $1`,
		normalizeEmail(email)).Scan(&identity.ID, &identity.Email, &role, &identity.Disabled, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity by email: %w", err)
	}
	if hash == nil || bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
		return nil, nil
	}
	identity.Role = entity.Role(role)
	return &identity, nil
}

func (p *IdentityProvider) findOne(ctx context.Context, query string, args ...any) (*entity.Identity, error) {
	var (
		identity entity.Identity
		role     string
	)
	err := p.db.QueryRow(ctx, query, args...).Scan(&identity.ID, &identity.Email, &role, &identity.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	identity.Role = entity.Role(role)
	return &identity, nil
}

func (p *IdentityProvider) exec(ctx context.Context, query string, args ...any) error {
	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "identidad no encontrada")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
