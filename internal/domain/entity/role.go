package entity

import (
	"fmt"

	"github.com/jhoicas/heliosuite-api/internal/domain"
)

// Role es el rol de un usuario. El valor es el que viaja en el claim del token y en el documento del usuario.
type Role string

// Roles del sistema, de mayor a menor jerarquía.
const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleSalesRep   Role = "sales_rep"
	RoleTechnician Role = "technician"
	RoleGuest      Role = "guest"
)

var roleRank = map[Role]int{
	RoleGuest:      1,
	RoleTechnician: 2,
	RoleSalesRep:   3,
	RoleAdmin:      4,
	RoleOwner:      5,
}

// Roles devuelve los cinco roles ordenados por rango ascendente.
func Roles() []Role {
	return []Role{RoleGuest, RoleTechnician, RoleSalesRep, RoleAdmin, RoleOwner}
}

// ParseRole convierte un string en Role. Devuelve domain.ErrInvalidRole si no es un rol conocido.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", domain.NewError(domain.ErrInvalidRole, fmt.Sprintf("rol inválido: %q", s))
	}
	return r, nil
}

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank devuelve el rango numérico (1..5). Un rol desconocido es un error del llamador.
func (r Role) Rank() (int, error) {
	rank, ok := roleRank[r]
	if !ok {
		return 0, domain.NewError(domain.ErrInvalidRole, fmt.Sprintf("rol inválido: %q", string(r)))
	}
	return rank, nil
}

// IsAtLeast indica si r tiene rango mayor o igual que threshold.
// Con cualquiera de los dos roles desconocido responde false.
func (r Role) IsAtLeast(threshold Role) bool {
	a, ok := roleRank[r]
	if !ok {
		return false
	}
	b, ok := roleRank[threshold]
	if !ok {
		return false
	}
	return a >= b
}

// OrNone devuelve el rol como string, o "none" si nunca se asignó.
func (r Role) OrNone() string {
	if r == "" {
		return "none"
	}
	return string(r)
}

// HasRole es la consulta booleana para la capa de presentación: current alcanza required.
func HasRole(current, required Role) bool {
	return current.IsAtLeast(required)
}
