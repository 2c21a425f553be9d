package entity

import "time"

// Colecciones del almacén de documentos.
const (
	CollectionUsers           = "users"
	CollectionClients         = "clients"
	CollectionLeads           = "leads"
	CollectionJobs            = "jobs"
	CollectionProducts        = "products"
	CollectionProposals       = "proposals"
	CollectionActivityLogs    = "activity_logs"
	CollectionNotifications   = "notifications"
	CollectionFileMetadata    = "file_metadata"
	CollectionCompanySettings = "company_settings"
)

// Base son los campos de auditoría comunes a todos los documentos.
// Los gestiona el repositorio: el dominio nunca los escribe a mano.
type Base struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Address dirección postal usada por usuarios, clientes y sitios de instalación.
type Address struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	Province    string       `json:"province"`
	PostalCode  string       `json:"postalCode"`
	Country     string       `json:"country"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates posición geográfica.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
