package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

func TestPermissionsFor_Tabla(t *testing.T) {
	// columnas en el orden de AllPermissions
	cols := []entity.Permission{
		entity.PermManageUsers, entity.PermAccessClientData, entity.PermAccessJobData, entity.PermManageProducts,
		entity.PermManageCompanySettings, entity.PermViewReports, entity.PermExportData,
		entity.PermManageClients, entity.PermManageJobs, entity.PermManageProposals, entity.PermManageSettings,
		entity.PermAccessAllData,
	}
	require.ElementsMatch(t, cols, entity.AllPermissions())

	const y, n = true, false
	table := map[entity.Role][]bool{
		entity.RoleOwner:      {y, y, y, y, y, y, y, y, y, y, y, y},
		entity.RoleAdmin:      {y, y, y, y, n, y, y, y, y, y, n, y},
		entity.RoleSalesRep:   {n, y, y, n, n, y, n, y, n, y, n, n},
		entity.RoleTechnician: {n, n, y, n, n, n, n, n, y, n, n, n},
		entity.RoleGuest:      {n, n, n, n, n, n, n, n, n, n, n, n},
	}
	require.Len(t, table, len(entity.Roles()))

	for role, row := range table {
		set := entity.PermissionsFor(role)
		require.Len(t, set, 12, "rol %s", role)
		for i, p := range cols {
			assert.Equal(t, row[i], set.Has(p), "rol %s, capacidad %s", role, p)
			assert.Equal(t, row[i], entity.HasPermission(role, string(p)), "rol %s, capacidad %s", role, p)
		}
	}
}

func TestPermissionsFor_ExcepcionesDelTope(t *testing.T) {
	assert.False(t, entity.HasPermission(entity.RoleAdmin, "manage-company-settings"))
	assert.False(t, entity.HasPermission(entity.RoleAdmin, "manage-settings"))
	assert.False(t, entity.HasPermission(entity.RoleSalesRep, "manage-jobs"))
}

func TestPermissionsFor_RolDesconocidoEsGuest(t *testing.T) {
	guest := entity.PermissionsFor(entity.RoleGuest)
	for _, r := range []entity.Role{"", "superuser", "Owner"} {
		assert.Equal(t, guest, entity.PermissionsFor(r), "rol %q", r)
	}
}

func TestHasPermission_NombreDesconocido(t *testing.T) {
	assert.False(t, entity.HasPermission(entity.RoleOwner, "delete-everything"))
	assert.False(t, entity.HasPermission(entity.RoleOwner, ""))
}

func TestCapabilities_Vocabularios(t *testing.T) {
	assert.Len(t, entity.ServerCapabilities(), 7)
	assert.Len(t, entity.ClientCapabilities(), 8)
	assert.Len(t, entity.AllPermissions(), 12)
}
