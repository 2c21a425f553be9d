package dto

import (
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SiteAddressInput dirección del sitio de instalación.
type SiteAddressInput struct {
	AddressInput
	AccessInstructions string `json:"accessInstructions,omitempty"`
}

// ToEntity convierte a la dirección de sitio del dominio.
func (s SiteAddressInput) ToEntity() entity.SiteAddress {
	return entity.SiteAddress{Address: s.AddressInput.ToEntity(), AccessInstructions: s.AccessInstructions}
}

// CreateJobRequest alta de trabajo. El número de trabajo lo asigna el sistema.
type CreateJobRequest struct {
	Title              string           `json:"title" validate:"trimmin=5"`
	Description        string           `json:"description" validate:"trimmin=10"`
	ClientID           string           `json:"clientId" validate:"required"`
	Priority           string           `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTechnician string           `json:"assignedTechnician,omitempty"`
	AssignedSalesRep   string           `json:"assignedSalesRep,omitempty"`
	ScheduledDate      *time.Time       `json:"scheduledDate,omitempty" validate:"omitempty,future"`
	EstimatedDuration  float64          `json:"estimatedDuration,omitempty" validate:"gte=0"`
	SiteAddress        SiteAddressInput `json:"siteAddress"`
	SystemSize         float64          `json:"systemSize,omitempty" validate:"omitempty,gt=0"`
	PanelCount         int              `json:"panelCount,omitempty" validate:"omitempty,gt=0"`
	InverterType       string           `json:"inverterType,omitempty"`
	RoofType           string           `json:"roofType,omitempty"`
	EstimatedCost      *decimal.Decimal `json:"estimatedCost,omitempty" validate:"omitempty,gte=0"`
	QuotedPrice        *decimal.Decimal `json:"quotedPrice,omitempty" validate:"omitempty,gte=0"`
}

// UpdateJobRequest parche de trabajo; los campos nulos no cambian.
type UpdateJobRequest struct {
	Title              *string           `json:"title,omitempty" validate:"omitempty,trimmin=5"`
	Description        *string           `json:"description,omitempty" validate:"omitempty,trimmin=10"`
	Priority           *string           `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedSalesRep   *string           `json:"assignedSalesRep,omitempty"`
	ScheduledDate      *time.Time        `json:"scheduledDate,omitempty" validate:"omitempty,future"`
	EstimatedDuration  *float64          `json:"estimatedDuration,omitempty" validate:"omitempty,gte=0"`
	ActualStartDate    *time.Time        `json:"actualStartDate,omitempty"`
	ActualEndDate      *time.Time        `json:"actualEndDate,omitempty"`
	SiteAddress        *SiteAddressInput `json:"siteAddress,omitempty"`
	SystemSize         *float64          `json:"systemSize,omitempty" validate:"omitempty,gt=0"`
	PanelCount         *int              `json:"panelCount,omitempty" validate:"omitempty,gt=0"`
	InverterType       *string           `json:"inverterType,omitempty"`
	RoofType           *string           `json:"roofType,omitempty"`
	FieldNotes         *string           `json:"fieldNotes,omitempty"`
	CustomerSignature  *string           `json:"customerSignature,omitempty"`
}

// JobStatusRequest cambio de estado.
type JobStatusRequest struct {
	Status string `json:"status" validate:"oneof=pending scheduled in_progress completed cancelled on_hold"`
	Notes  string `json:"notes,omitempty"`
}

// AssignTechnicianRequest asignación de técnico.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technicianId" validate:"required"`
}

// ScheduleJobRequest programación del trabajo.
type ScheduleJobRequest struct {
	ScheduledDate     time.Time `json:"scheduledDate" validate:"required,future"`
	EstimatedDuration *float64  `json:"estimatedDuration,omitempty" validate:"omitempty,gt=0"`
}

// FieldWorkRequest notas y fotos cargadas desde el sitio.
type FieldWorkRequest struct {
	FieldNotes       string   `json:"fieldNotes,omitempty"`
	Photos           []string `json:"photos,omitempty" validate:"omitempty,dive,url"`
	CompletionPhotos []string `json:"completionPhotos,omitempty" validate:"omitempty,dive,url"`
}

// JobPricingRequest parche de costos y precios; los nulos no cambian.
type JobPricingRequest struct {
	EstimatedCost *decimal.Decimal `json:"estimatedCost,omitempty" validate:"omitempty,gte=0"`
	ActualCost    *decimal.Decimal `json:"actualCost,omitempty" validate:"omitempty,gte=0"`
	QuotedPrice   *decimal.Decimal `json:"quotedPrice,omitempty" validate:"omitempty,gte=0"`
	FinalPrice    *decimal.Decimal `json:"finalPrice,omitempty" validate:"omitempty,gte=0"`
}

// FeedbackRequest calificación del cliente.
type FeedbackRequest struct {
	Rating            int    `json:"rating" validate:"min=1,max=5"`
	Feedback          string `json:"feedback,omitempty"`
	CustomerSignature string `json:"customerSignature,omitempty"`
}

// JobSearchRequest filtros de búsqueda de trabajos.
type JobSearchRequest struct {
	Term               string           `query:"term"`
	Status             string           `query:"status"`
	Priority           string           `query:"priority"`
	ClientID           string           `query:"clientId"`
	AssignedTechnician string           `query:"assignedTechnician"`
	AssignedSalesRep   string           `query:"assignedSalesRep"`
	From               *time.Time       `query:"from"`
	To                 *time.Time       `query:"to"`
	MinValue           *decimal.Decimal `query:"minValue"`
	MaxValue           *decimal.Decimal `query:"maxValue"`
}

// TechnicianWorkload carga de un técnico. TotalHours usa la duración real si el trabajo
// tiene inicio y fin, y la estimada en otro caso.
type TechnicianWorkload struct {
	TechnicianID       string        `json:"technicianId"`
	ActiveJobs         []*entity.Job `json:"activeJobs"`    // scheduled o in_progress
	ScheduledJobs      []*entity.Job `json:"scheduledJobs"` // scheduled con fecha futura
	CompletedThisMonth []*entity.Job `json:"completedThisMonth"`
	TotalHours         float64       `json:"totalHours"`
}

// JobStats estadísticas de trabajos.
type JobStats struct {
	Total             int             `json:"total"`
	ByStatus          map[string]int  `json:"byStatus"`
	ByPriority        map[string]int  `json:"byPriority"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageJobValue   decimal.Decimal `json:"averageJobValue"`
	AverageRating     float64         `json:"averageRating"`
	CompletionRate    float64         `json:"completionRate"`
	TotalSystemSizeKW float64         `json:"totalSystemSizeKw"`
}
