// Package authz concentra las reglas de autorización que se aplican dentro de cada mutación.
// Todas las reglas fallan cerrado: un rol desconocido o vacío nunca concede nada.
package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// EntityKind tipo de entidad sujeta a autorización por propiedad.
type EntityKind string

const (
	EntityClient EntityKind = "client"
	EntityLead   EntityKind = "lead"
	EntityJob    EntityKind = "job"
)

// Guard resuelve a quien llama y evalúa las reglas de autorización.
type Guard struct {
	identities repository.IdentityProvider
}

// NewGuard construye el guard sobre el proveedor de identidad.
func NewGuard(identities repository.IdentityProvider) *Guard {
	return &Guard{identities: identities}
}

// Resolve obtiene el principal autenticado. Un id vacío, desconocido o deshabilitado es Unauthenticated.
func (g *Guard) Resolve(ctx context.Context, callerID string) (entity.Principal, error) {
	if callerID == "" {
		return entity.Principal{}, domain.ErrUnauthenticated
	}
	identity, err := g.identities.ResolveCaller(ctx, callerID)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("resolver identidad: %w", err)
	}
	if identity == nil || identity.Disabled {
		return entity.Principal{}, domain.ErrUnauthenticated
	}
	return entity.Principal{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     identity.Role,
		IsActive: !identity.Disabled,
	}, nil
}

// CanAssignRole indica si un rol puede asignar otro: solo owner y admin, nunca por encima
// del propio rango, y admin nunca puede asignar owner.
func CanAssignRole(caller, target entity.Role) bool {
	if caller != entity.RoleOwner && caller != entity.RoleAdmin {
		return false
	}
	if caller == entity.RoleAdmin && target == entity.RoleOwner {
		return false
	}
	targetRank, err := target.Rank()
	if err != nil {
		return false
	}
	callerRank, err := caller.Rank()
	if err != nil {
		return false
	}
	return targetRank <= callerRank
}

// AuthorizeRoleAssignment valida el rol destino y luego la regla de asignación.
func (g *Guard) AuthorizeRoleAssignment(caller entity.Principal, target entity.Role) error {
	if !target.Valid() {
		return domain.NewError(domain.ErrInvalidRole, fmt.Sprintf("rol inválido: %q", string(target)))
	}
	if !CanAssignRole(caller.Role, target) {
		return domain.NewError(domain.ErrPermissionDenied, "permisos insuficientes para asignar este rol")
	}
	return nil
}

// AuthorizeDeactivation rige tanto la desactivación como la reactivación de usuarios.
func (g *Guard) AuthorizeDeactivation(caller entity.Principal, targetID string) error {
	if caller.IsSelf(targetID) {
		return domain.NewError(domain.ErrPermissionDenied, "no puede desactivar su propia cuenta")
	}
	if caller.Role != entity.RoleOwner && caller.Role != entity.RoleAdmin {
		return domain.NewError(domain.ErrPermissionDenied, "solo owner o admin pueden desactivar usuarios")
	}
	return nil
}

// AuthorizeUserManagement exige manage-users.
func (g *Guard) AuthorizeUserManagement(caller entity.Principal) error {
	return g.Authorize(caller, entity.PermManageUsers)
}

// Authorize chequeo genérico por capacidad.
func (g *Guard) Authorize(caller entity.Principal, capability entity.Permission) error {
	if !entity.PermissionsFor(caller.Role).Has(capability) {
		return domain.NewError(domain.ErrPermissionDenied, fmt.Sprintf("permisos insuficientes: se requiere %s", capability))
	}
	return nil
}

// AuthorizeEntity autorización por propiedad sobre clientes, leads y trabajos.
//   - owner y admin: cualquier entidad.
//   - sales_rep: clientes, leads y trabajos sin asignar o asignados a sí mismo.
//   - technician: solo trabajos sin técnico o asignados a sí mismo.
//   - guest: nunca.
func (g *Guard) AuthorizeEntity(caller entity.Principal, kind EntityKind, own entity.Ownership) error {
	if CanAccessEntity(caller, kind, own) {
		return nil
	}
	return domain.NewError(domain.ErrPermissionDenied, fmt.Sprintf("sin acceso a este %s", kind))
}

// CanAccessEntity versión booleana de AuthorizeEntity, usada para filtrar listados.
func CanAccessEntity(caller entity.Principal, kind EntityKind, own entity.Ownership) bool {
	switch caller.Role {
	case entity.RoleOwner, entity.RoleAdmin:
		return true
	case entity.RoleSalesRep:
		switch kind {
		case EntityClient, EntityLead, EntityJob:
			return own.AssignedSalesRep == "" || own.AssignedSalesRep == caller.ID
		}
	case entity.RoleTechnician:
		if kind == EntityJob {
			return own.AssignedTechnician == "" || own.AssignedTechnician == caller.ID
		}
	}
	return false
}

// AuthorizeProductMutation solo owner y admin modifican el catálogo.
func (g *Guard) AuthorizeProductMutation(caller entity.Principal) error {
	if caller.Role != entity.RoleOwner && caller.Role != entity.RoleAdmin {
		return domain.NewError(domain.ErrPermissionDenied, "solo owner o admin pueden modificar productos")
	}
	return nil
}

// AuthorizeProductView cualquier rol válido puede consultar el catálogo.
func (g *Guard) AuthorizeProductView(caller entity.Principal) error {
	if !caller.Role.Valid() {
		return domain.NewError(domain.ErrPermissionDenied, "rol sin acceso al catálogo")
	}
	return nil
}

// AuthorizeActivityFeed el propio feed siempre; el de otros exige access-all-data.
func (g *Guard) AuthorizeActivityFeed(caller entity.Principal, userID string) error {
	if caller.IsSelf(userID) {
		return nil
	}
	return g.Authorize(caller, entity.PermAccessAllData)
}
