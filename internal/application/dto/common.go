package dto

import "github.com/jhoicas/heliosuite-api/internal/domain/entity"

// PageRequest paginación por cursor para listados.
type PageRequest struct {
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Cursor string `query:"cursor"`
}

// DefaultPage aplica valores por defecto si Limit es cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// ListResponse lista paginada genérica.
type ListResponse[T any] struct {
	Items []*T         `json:"items"`
	Page  PageResponse `json:"page"`
}

// ErrorResponse cuerpo de error HTTP. Details solo viaja en errores de validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ResultResponse respuesta de los callables de gestión de usuarios.
type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AddressInput dirección validada (calle, ciudad, provincia, código postal, país).
type AddressInput struct {
	Street      string            `json:"street" validate:"trimmin=5"`
	City        string            `json:"city" validate:"trimmin=2"`
	Province    string            `json:"province" validate:"required"`
	PostalCode  string            `json:"postalCode" validate:"postalcode"`
	Country     string            `json:"country" validate:"required"`
	Coordinates *CoordinatesInput `json:"coordinates,omitempty"`
}

// CoordinatesInput latitud y longitud acotadas.
type CoordinatesInput struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// ToEntity convierte a la dirección del dominio.
func (a AddressInput) ToEntity() entity.Address {
	out := entity.Address{
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
	if a.Coordinates != nil {
		out.Coordinates = &entity.Coordinates{Latitude: a.Coordinates.Latitude, Longitude: a.Coordinates.Longitude}
	}
	return out
}
