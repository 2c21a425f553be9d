package entity

import "time"

// User es el documento de perfil de un usuario. El rol vive también como claim en el
// proveedor de identidad; ambos se actualizan juntos por el flujo de cambio de rol.
type User struct {
	Base
	Email         string      `json:"email"`
	Role          Role        `json:"role"`
	IsActive      bool        `json:"isActive"`
	Profile       Profile     `json:"profile"`
	Preferences   Preferences `json:"preferences"`
	LastLoginAt   *time.Time  `json:"lastLoginAt,omitempty"`
	DeactivatedAt *time.Time  `json:"deactivatedAt,omitempty"`
	DeactivatedBy string      `json:"deactivatedBy,omitempty"`
}

// Profile datos personales del usuario.
type Profile struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Avatar    string   `json:"avatar,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// FullName nombre para descripciones de actividad.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return ""
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// Preferences preferencias de la interfaz y notificaciones.
type Preferences struct {
	Notifications NotificationPreferences `json:"notifications"`
	Theme         string                  `json:"theme"` // light, dark
	Language      string                  `json:"language"`
}

// NotificationPreferences canales de notificación habilitados.
type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// DefaultPreferences preferencias con las que nace un usuario.
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPreferences{Email: true, SMS: false, Push: true},
		Theme:         "light",
		Language:      "en",
	}
}

// Identity es la cuenta en el proveedor de identidad (credenciales + claim de rol).
type Identity struct {
	ID       string
	Email    string
	Role     Role // vacío si nunca se asignó un claim
	Disabled bool
}

// Principal es quien llama, ya resuelto contra el proveedor de identidad.
type Principal struct {
	ID       string
	Email    string
	Role     Role
	IsActive bool
}

// IsSelf indica si el principal es el usuario indicado.
func (p Principal) IsSelf(userID string) bool {
	return p.ID != "" && p.ID == userID
}
