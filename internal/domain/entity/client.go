package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un cliente.
const (
	ClientStatusLead     = "lead"
	ClientStatusProspect = "prospect"
	ClientStatusCustomer = "customer"
	ClientStatusInactive = "inactive"
)

// Contact son los datos de contacto compartidos por clientes y leads.
type Contact struct {
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	AlternatePhone   string     `json:"alternatePhone,omitempty"`
	Address          Address    `json:"address"`
	Company          string     `json:"company,omitempty"`
	TaxNumber        string     `json:"taxNumber,omitempty"`
	Source           string     `json:"source"` // website, referral, social_media, advertisement, cold_call, other
	AssignedSalesRep string     `json:"assignedSalesRep,omitempty"`
	Tags             []string   `json:"tags"`
	Notes            string     `json:"notes"`
	CreditRating     string     `json:"creditRating,omitempty"` // excellent, good, fair, poor
	PaymentTerms     string     `json:"paymentTerms,omitempty"`
	LastContactDate  *time.Time `json:"lastContactDate,omitempty"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate,omitempty"`
}

// FullName nombre y apellido para descripciones.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Client cliente de la empresa instaladora.
type Client struct {
	Base
	Contact
	Status       string          `json:"status"` // lead, prospect, customer, inactive
	TotalJobs    int             `json:"totalJobs"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// Estados de un lead.
const (
	LeadStatusNew          = "new"
	LeadStatusContacted    = "contacted"
	LeadStatusQualified    = "qualified"
	LeadStatusProposalSent = "proposal_sent"
	LeadStatusNegotiating  = "negotiating"
	LeadStatusWon          = "won"
	LeadStatusLost         = "lost"
)

// Prioridades compartidas por leads y trabajos.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Lead prospecto comercial aún no convertido en cliente.
type Lead struct {
	Base
	Contact
	Status            string           `json:"status"`
	Priority          string           `json:"priority"`
	EstimatedValue    *decimal.Decimal `json:"estimatedValue,omitempty"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate,omitempty"`
	LostReason        string           `json:"lostReason,omitempty"`
	ConversionDate    *time.Time       `json:"conversionDate,omitempty"`
}
