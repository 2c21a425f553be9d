package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAssignRole_TruthTable(t *testing.T) {
	const (
		O = entity.RoleOwner
		A = entity.RoleAdmin
		S = entity.RoleSalesRep
		T = entity.RoleTechnician
		G = entity.RoleGuest
	)
	allowed := map[entity.Role]map[entity.Role]bool{
		O: {O: true, A: true, S: true, T: true, G: true},
		A: {O: false, A: true, S: true, T: true, G: true},
		S: {O: false, A: false, S: false, T: false, G: false},
		T: {O: false, A: false, S: false, T: false, G: false},
		G: {O: false, A: false, S: false, T: false, G: false},
	}
	for _, caller := range entity.Roles() {
		for _, target := range entity.Roles() {
			assert.Equal(t, allowed[caller][target], authz.CanAssignRole(caller, target),
				"caller=%s target=%s", caller, target)
		}
	}
}

func TestCanAssignRole_UnknownRolesFailClosed(t *testing.T) {
	assert.False(t, authz.CanAssignRole("superuser", entity.RoleGuest))
	assert.False(t, authz.CanAssignRole(entity.RoleOwner, "superuser"))
	assert.False(t, authz.CanAssignRole("", entity.RoleGuest))
}

func TestAuthorizeRoleAssignment(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	admin := entity.Principal{ID: "a1", Role: entity.RoleAdmin}

	err := g.AuthorizeRoleAssignment(admin, entity.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	err = g.AuthorizeRoleAssignment(admin, "boss")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	assert.NoError(t, g.AuthorizeRoleAssignment(admin, entity.RoleAdmin))
}

func TestAuthorizeDeactivation_SelfAlwaysDenied(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	for _, r := range entity.Roles() {
		caller := entity.Principal{ID: "u1", Role: r}
		err := g.AuthorizeDeactivation(caller, "u1")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied, "role=%s", r)
	}
}

func TestAuthorizeDeactivation_Others(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	assert.NoError(t, g.AuthorizeDeactivation(entity.Principal{ID: "o", Role: entity.RoleOwner}, "x"))
	assert.NoError(t, g.AuthorizeDeactivation(entity.Principal{ID: "a", Role: entity.RoleAdmin}, "x"))
	assert.ErrorIs(t, g.AuthorizeDeactivation(entity.Principal{ID: "s", Role: entity.RoleSalesRep}, "x"), domain.ErrPermissionDenied)
}

func TestAuthorizeEntity(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	rep := entity.Principal{ID: "rep1", Role: entity.RoleSalesRep}
	tech := entity.Principal{ID: "tech1", Role: entity.RoleTechnician}
	admin := entity.Principal{ID: "adm", Role: entity.RoleAdmin}
	guest := entity.Principal{ID: "g", Role: entity.RoleGuest}

	tests := []struct {
		name   string
		caller entity.Principal
		kind   authz.EntityKind
		own    entity.Ownership
		ok     bool
	}{
		{"admin cualquier cliente", admin, authz.EntityClient, entity.Ownership{AssignedSalesRep: "otro"}, true},
		{"rep cliente sin asignar", rep, authz.EntityClient, entity.Ownership{}, true},
		{"rep cliente propio", rep, authz.EntityClient, entity.Ownership{AssignedSalesRep: "rep1"}, true},
		{"rep cliente ajeno", rep, authz.EntityClient, entity.Ownership{AssignedSalesRep: "rep2"}, false},
		{"rep lead ajeno", rep, authz.EntityLead, entity.Ownership{AssignedSalesRep: "rep2"}, false},
		{"rep trabajo propio", rep, authz.EntityJob, entity.Ownership{AssignedSalesRep: "rep1"}, true},
		{"tech trabajo propio", tech, authz.EntityJob, entity.Ownership{AssignedTechnician: "tech1"}, true},
		{"tech trabajo sin tecnico", tech, authz.EntityJob, entity.Ownership{}, true},
		{"tech trabajo ajeno", tech, authz.EntityJob, entity.Ownership{AssignedTechnician: "tech2"}, false},
		{"tech cliente", tech, authz.EntityClient, entity.Ownership{}, false},
		{"guest trabajo", guest, authz.EntityJob, entity.Ownership{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AuthorizeEntity(tt.caller, tt.kind, tt.own)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrPermissionDenied)
			}
		})
	}
}

func TestAuthorizeProducts(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	assert.NoError(t, g.AuthorizeProductMutation(entity.Principal{Role: entity.RoleAdmin}))
	assert.ErrorIs(t, g.AuthorizeProductMutation(entity.Principal{Role: entity.RoleSalesRep}), domain.ErrPermissionDenied)
	assert.NoError(t, g.AuthorizeProductView(entity.Principal{Role: entity.RoleTechnician}))
	assert.ErrorIs(t, g.AuthorizeProductView(entity.Principal{Role: ""}), domain.ErrPermissionDenied)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	idp := memory.NewIdentityProvider()
	require.NoError(t, idp.Create(ctx, entity.Identity{ID: "u1", Email: "U1@example.com", Role: entity.RoleAdmin}, ""))
	require.NoError(t, idp.Create(ctx, entity.Identity{ID: "u2", Email: "u2@example.com", Disabled: true}, ""))
	g := authz.NewGuard(idp)

	p, err := g.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, p.Role)
	assert.Equal(t, "u1@example.com", p.Email)
	assert.True(t, p.IsActive)

	_, err = g.Resolve(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = g.Resolve(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = g.Resolve(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	idp.Err = errors.New("conexión rechazada")
	_, err = g.Resolve(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAuthorizeActivityFeed(t *testing.T) {
	g := authz.NewGuard(memory.NewIdentityProvider())
	rep := entity.Principal{ID: "rep1", Role: entity.RoleSalesRep}
	assert.NoError(t, g.AuthorizeActivityFeed(rep, "rep1"))
	assert.ErrorIs(t, g.AuthorizeActivityFeed(rep, "otro"), domain.ErrPermissionDenied)
	assert.NoError(t, g.AuthorizeActivityFeed(entity.Principal{ID: "o", Role: entity.RoleOwner}, "otro"))
}
