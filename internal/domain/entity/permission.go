package entity

// Permission es una capacidad con nombre derivada del rol.
type Permission string

// Capacidades usadas por los chequeos del servidor (callables).
const (
	PermManageUsers           Permission = "manage-users"
	PermAccessClientData      Permission = "access-client-data"
	PermAccessJobData         Permission = "access-job-data"
	PermManageProducts        Permission = "manage-products"
	PermManageCompanySettings Permission = "manage-company-settings"
	PermViewReports           Permission = "view-reports"
	PermExportData            Permission = "export-data"
)

// Capacidades usadas por los chequeos de gestión de entidades.
const (
	PermManageClients   Permission = "manage-clients"
	PermManageJobs      Permission = "manage-jobs"
	PermManageProposals Permission = "manage-proposals"
	PermManageSettings  Permission = "manage-settings"
	PermAccessAllData   Permission = "access-all-data"
)

// PermissionSet mapea cada capacidad a si está concedida. Siempre contiene las doce claves.
type PermissionSet map[Permission]bool

// Has indica si la capacidad está concedida.
func (s PermissionSet) Has(p Permission) bool { return s[p] }

// Tabla única de capacidades por rol. Los dos vocabularios históricos (servidor y gestión)
// son vistas sobre esta tabla; view-reports y manage-products aparecen en ambos.
var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermManageUsers, PermAccessClientData, PermAccessJobData, PermManageProducts,
		PermManageCompanySettings, PermViewReports, PermExportData,
		PermManageClients, PermManageJobs, PermManageProposals, PermManageSettings, PermAccessAllData,
	},
	RoleAdmin: {
		PermManageUsers, PermAccessClientData, PermAccessJobData, PermManageProducts,
		PermViewReports, PermExportData,
		PermManageClients, PermManageJobs, PermManageProposals, PermAccessAllData,
	},
	RoleSalesRep: {
		PermAccessClientData, PermAccessJobData, PermViewReports,
		PermManageClients, PermManageProposals,
	},
	RoleTechnician: {
		PermAccessJobData, PermManageJobs,
	},
	RoleGuest: {},
}

// ServerCapabilities devuelve el vocabulario de los callables del servidor.
func ServerCapabilities() []Permission {
	return []Permission{
		PermManageUsers, PermAccessClientData, PermAccessJobData, PermManageProducts,
		PermManageCompanySettings, PermViewReports, PermExportData,
	}
}

// ClientCapabilities devuelve el vocabulario de gestión de entidades.
func ClientCapabilities() []Permission {
	return []Permission{
		PermManageUsers, PermManageClients, PermManageJobs, PermManageProposals,
		PermManageProducts, PermViewReports, PermManageSettings, PermAccessAllData,
	}
}

// AllPermissions devuelve las doce capacidades sin repetir.
func AllPermissions() []Permission {
	seen := make(map[Permission]bool)
	out := make([]Permission, 0, 12)
	for _, p := range append(ServerCapabilities(), ClientCapabilities()...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// PermissionsFor devuelve el conjunto completo de capacidades del rol.
// Un rol desconocido o vacío recibe el conjunto de Guest (todo en false).
func PermissionsFor(r Role) PermissionSet {
	set := make(PermissionSet, 12)
	for _, p := range AllPermissions() {
		set[p] = false
	}
	for _, p := range rolePermissions[r] {
		set[p] = true
	}
	return set
}

// HasPermission es la consulta booleana para la capa de presentación.
// Un nombre de capacidad desconocido siempre responde false.
func HasPermission(r Role, name string) bool {
	return PermissionsFor(r)[Permission(name)]
}
