package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un trabajo de instalación.
const (
	JobStatusPending    = "pending"
	JobStatusScheduled  = "scheduled"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
	JobStatusOnHold     = "on_hold"
)

// Job trabajo de instalación solar asociado a un cliente.
type Job struct {
	Base
	JobNumber          string           `json:"jobNumber"` // JOB-YYYYMM-NNNN
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	ClientID           string           `json:"clientId"`
	Status             string           `json:"status"`
	Priority           string           `json:"priority"`
	AssignedTechnician string           `json:"assignedTechnician,omitempty"`
	AssignedSalesRep   string           `json:"assignedSalesRep,omitempty"`
	ScheduledDate      *time.Time       `json:"scheduledDate,omitempty"`
	EstimatedDuration  float64          `json:"estimatedDuration,omitempty"` // horas
	ActualStartDate    *time.Time       `json:"actualStartDate,omitempty"`
	ActualEndDate      *time.Time       `json:"actualEndDate,omitempty"`
	SiteAddress        SiteAddress      `json:"siteAddress"`
	SystemSize         float64          `json:"systemSize,omitempty"` // kW
	PanelCount         int              `json:"panelCount,omitempty"`
	InverterType       string           `json:"inverterType,omitempty"`
	RoofType           string           `json:"roofType,omitempty"`
	EstimatedCost      *decimal.Decimal `json:"estimatedCost,omitempty"`
	ActualCost         *decimal.Decimal `json:"actualCost,omitempty"`
	QuotedPrice        *decimal.Decimal `json:"quotedPrice,omitempty"`
	FinalPrice         *decimal.Decimal `json:"finalPrice,omitempty"`
	FieldNotes         string           `json:"fieldNotes,omitempty"`
	Photos             []string         `json:"photos,omitempty"`
	CompletionPhotos   []string         `json:"completionPhotos,omitempty"`
	CustomerSignature  string           `json:"customerSignature,omitempty"`
	CustomerRating     int              `json:"customerRating,omitempty"` // 1-5
	CustomerFeedback   string           `json:"customerFeedback,omitempty"`
}

// SiteAddress dirección del sitio de instalación.
type SiteAddress struct {
	Address
	AccessInstructions string `json:"accessInstructions,omitempty"`
}

// Ownership devuelve las asignaciones que usa el guard de autorización.
func (j *Job) Ownership() Ownership {
	return Ownership{AssignedSalesRep: j.AssignedSalesRep, AssignedTechnician: j.AssignedTechnician}
}

// Ownership asignaciones de una entidad relevantes para la autorización por propiedad.
type Ownership struct {
	AssignedSalesRep   string
	AssignedTechnician string
}
