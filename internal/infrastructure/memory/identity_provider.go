package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

type identityRecord struct {
	identity entity.Identity
	hash     []byte
}

// IdentityProvider implementa repository.IdentityProvider en memoria (tests y STORE_BACKEND=memory).
type IdentityProvider struct {
	mu      sync.RWMutex
	byID    map[string]*identityRecord
	byEmail map[string]string
	// Err se devuelve en todas las operaciones si no es nil (simula caída del proveedor).
	Err error
}

// NewIdentityProvider crea un proveedor vacío.
func NewIdentityProvider() *IdentityProvider {
	return &IdentityProvider{
		byID:    make(map[string]*identityRecord),
		byEmail: make(map[string]string),
	}
}

// ResolveCaller devuelve una copia de la identidad o nil si no existe.
func (p *IdentityProvider) ResolveCaller(ctx context.Context, id string) (*entity.Identity, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.byID[id]
	if !ok {
		return nil, nil
	}
	out := rec.identity
	return &out, nil
}

// SetRole actualiza el claim de rol.
func (p *IdentityProvider) SetRole(ctx context.Context, id string, role entity.Role) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.identity.Role = role
	return nil
}

// SetDisabled habilita o deshabilita la cuenta.
func (p *IdentityProvider) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.identity.Disabled = disabled
	return nil
}

// Create registra una identidad. Con password vacío la cuenta no puede iniciar sesión.
func (p *IdentityProvider) Create(ctx context.Context, identity entity.Identity, password string) error {
	if p.Err != nil {
		return p.Err
	}
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	var hash []byte
	if password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byID[identity.ID]; ok {
		return domain.NewError(domain.ErrAlreadyExists, "la identidad ya existe")
	}
	if email != "" {
		if _, ok := p.byEmail[email]; ok {
			return domain.NewError(domain.ErrAlreadyExists, "el email ya está registrado")
		}
		p.byEmail[email] = identity.ID
	}
	identity.Email = email
	p.byID[identity.ID] = &identityRecord{identity: identity, hash: hash}
	return nil
}

// Authenticate compara la contraseña con el hash bcrypt almacenado.
func (p *IdentityProvider) Authenticate(ctx context.Context, email, password string) (*entity.Identity, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, nil
	}
	rec := p.byID[id]
	if len(rec.hash) == 0 || bcrypt.CompareHashAndPassword(rec.hash, []byte(password)) != nil {
		return nil, nil
	}
	out := rec.identity
	return &out, nil
}
