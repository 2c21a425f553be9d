package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	for _, r := range entity.Roles() {
		got, err := entity.ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	for _, s := range []string{"", "superuser", "ADMIN", " owner"} {
		_, err := entity.ParseRole(s)
		assert.ErrorIs(t, err, domain.ErrInvalidRole, "entrada %q", s)
	}
}

func TestRole_Rank(t *testing.T) {
	for i, r := range entity.Roles() {
		rank, err := r.Rank()
		require.NoError(t, err)
		assert.Equal(t, i+1, rank, "rol %s", r)
	}

	_, err := entity.Role("superuser").Rank()
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = entity.Role("").Rank()
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRole_IsAtLeast(t *testing.T) {
	assert.True(t, entity.RoleOwner.IsAtLeast(entity.RoleAdmin))
	assert.True(t, entity.RoleAdmin.IsAtLeast(entity.RoleAdmin))
	assert.True(t, entity.RoleSalesRep.IsAtLeast(entity.RoleTechnician))
	assert.False(t, entity.RoleTechnician.IsAtLeast(entity.RoleSalesRep))
	assert.False(t, entity.RoleGuest.IsAtLeast(entity.RoleTechnician))

	// un rol desconocido, de cualquier lado, nunca alcanza
	assert.False(t, entity.Role("superuser").IsAtLeast(entity.RoleGuest))
	assert.False(t, entity.Role("").IsAtLeast(entity.RoleGuest))
	assert.False(t, entity.RoleOwner.IsAtLeast("superuser"))
	assert.False(t, entity.HasRole("superuser", entity.RoleGuest))
	assert.True(t, entity.HasRole(entity.RoleOwner, entity.RoleGuest))
}

func TestRole_OrNone(t *testing.T) {
	assert.Equal(t, "none", entity.Role("").OrNone())
	assert.Equal(t, "admin", entity.RoleAdmin.OrNone())
}
