package dto

import "github.com/jhoicas/heliosuite-api/internal/domain/entity"

// ProfileInput datos personales de un usuario.
type ProfileInput struct {
	FirstName string        `json:"firstName" validate:"trimmin=2"`
	LastName  string        `json:"lastName" validate:"trimmin=2"`
	Phone     string        `json:"phone" validate:"phone"`
	Avatar    string        `json:"avatar,omitempty" validate:"omitempty,url"`
	Address   *AddressInput `json:"address,omitempty"`
}

// ToEntity convierte al perfil del dominio.
func (p ProfileInput) ToEntity() entity.Profile {
	out := entity.Profile{FirstName: p.FirstName, LastName: p.LastName, Phone: p.Phone, Avatar: p.Avatar}
	if p.Address != nil {
		addr := p.Address.ToEntity()
		out.Address = &addr
	}
	return out
}

// PreferencesInput preferencias de interfaz.
type PreferencesInput struct {
	Notifications entity.NotificationPreferences `json:"notifications"`
	Theme         string                         `json:"theme" validate:"oneof=light dark"`
	Language      string                         `json:"language" validate:"min=2"`
}

// CreateUserRequest alta de usuario con su identidad (password opcional).
type CreateUserRequest struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password,omitempty" validate:"omitempty,min=8"`
	Role        entity.Role       `json:"role" validate:"required,oneof=owner admin sales_rep technician guest"`
	Profile     ProfileInput      `json:"profile"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
}

// UpdateUserRequest parche de perfil y preferencias. Los campos nulos no cambian.
type UpdateUserRequest struct {
	Profile     *ProfileInput     `json:"profile,omitempty"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
}

// SetRoleRequest entrada de setUserRole.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// InitializeRoleRequest entrada de initializeUserRole.
type InitializeRoleRequest struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	InitialRole string `json:"initialRole,omitempty"`
	Password    string `json:"password,omitempty"`
}

// DeactivateRequest entrada de deactivateUser.
type DeactivateRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RoleResponse salida de getUserRole.
type RoleResponse struct {
	UserID      string               `json:"userId"`
	Role        entity.Role          `json:"role"`
	Permissions entity.PermissionSet `json:"permissions"`
}

// UserStats totales de usuarios.
type UserStats struct {
	Total    int                 `json:"total"`
	Active   int                 `json:"active"`
	Inactive int                 `json:"inactive"`
	ByRole   map[entity.Role]int `json:"byRole"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}
