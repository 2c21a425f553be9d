package dto

import (
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ContactInput datos de contacto compartidos por clientes y leads.
type ContactInput struct {
	FirstName        string       `json:"firstName" validate:"trimmin=2"`
	LastName         string       `json:"lastName" validate:"trimmin=2"`
	Email            string       `json:"email" validate:"required,email"`
	Phone            string       `json:"phone" validate:"phone"`
	AlternatePhone   string       `json:"alternatePhone,omitempty" validate:"omitempty,phone"`
	Address          AddressInput `json:"address"`
	Company          string       `json:"company,omitempty"`
	TaxNumber        string       `json:"taxNumber,omitempty"`
	Source           string       `json:"source" validate:"oneof=website referral social_media advertisement cold_call other"`
	AssignedSalesRep string       `json:"assignedSalesRep,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Notes            string       `json:"notes,omitempty" validate:"max=5000"`
	CreditRating     string       `json:"creditRating,omitempty" validate:"omitempty,oneof=excellent good fair poor"`
	PaymentTerms     string       `json:"paymentTerms,omitempty"`
	NextFollowUpDate *time.Time   `json:"nextFollowUpDate,omitempty"`
}

// ToEntity convierte al contacto del dominio.
func (c ContactInput) ToEntity() entity.Contact {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return entity.Contact{
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		AlternatePhone:   c.AlternatePhone,
		Address:          c.Address.ToEntity(),
		Company:          c.Company,
		TaxNumber:        c.TaxNumber,
		Source:           c.Source,
		AssignedSalesRep: c.AssignedSalesRep,
		Tags:             tags,
		Notes:            c.Notes,
		CreditRating:     c.CreditRating,
		PaymentTerms:     c.PaymentTerms,
		NextFollowUpDate: c.NextFollowUpDate,
	}
}

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	ContactInput
	Status string `json:"status,omitempty" validate:"omitempty,oneof=lead prospect customer inactive"`
}

// UpdateClientRequest parche de cliente; los campos nulos no cambian.
type UpdateClientRequest struct {
	FirstName        *string       `json:"firstName,omitempty" validate:"omitempty,trimmin=2"`
	LastName         *string       `json:"lastName,omitempty" validate:"omitempty,trimmin=2"`
	Email            *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string       `json:"phone,omitempty" validate:"omitempty,phone"`
	AlternatePhone   *string       `json:"alternatePhone,omitempty" validate:"omitempty,phone"`
	Address          *AddressInput `json:"address,omitempty"`
	Company          *string       `json:"company,omitempty"`
	TaxNumber        *string       `json:"taxNumber,omitempty"`
	Status           *string       `json:"status,omitempty" validate:"omitempty,oneof=lead prospect customer inactive"`
	Source           *string       `json:"source,omitempty" validate:"omitempty,oneof=website referral social_media advertisement cold_call other"`
	AssignedSalesRep *string       `json:"assignedSalesRep,omitempty"`
	Tags             []string      `json:"tags,omitempty"`
	Notes            *string       `json:"notes,omitempty" validate:"omitempty,max=5000"`
	CreditRating     *string       `json:"creditRating,omitempty" validate:"omitempty,oneof=excellent good fair poor"`
	PaymentTerms     *string       `json:"paymentTerms,omitempty"`
	NextFollowUpDate *time.Time    `json:"nextFollowUpDate,omitempty"`
}

// TagsRequest etiquetas a agregar o quitar.
type TagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,trimmin=1"`
}

// ContactRequest registro de contacto con próximo seguimiento opcional.
type ContactRequest struct {
	NextFollowUpDate *time.Time `json:"nextFollowUpDate,omitempty" validate:"omitempty,future"`
}

// ClientSearchRequest filtros de búsqueda de clientes (todos opcionales, conjuntivos).
type ClientSearchRequest struct {
	Term             string           `query:"term"`
	Status           string           `query:"status"`
	Source           string           `query:"source"`
	AssignedSalesRep string           `query:"assignedSalesRep"`
	Tags             []string         `query:"tags"`
	MinRevenue       *decimal.Decimal `query:"minRevenue"`
	MaxRevenue       *decimal.Decimal `query:"maxRevenue"`
}

// ClientStats estadísticas agregadas de clientes.
type ClientStats struct {
	Total          int              `json:"total"`
	ByStatus       map[string]int   `json:"byStatus"`
	BySource       map[string]int   `json:"bySource"`
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	AverageRevenue decimal.Decimal  `json:"averageRevenue"`
	TopClients     []*entity.Client `json:"topClients"`
}

// CreateLeadRequest alta de lead.
type CreateLeadRequest struct {
	ContactInput
	Priority          string           `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	EstimatedValue    *decimal.Decimal `json:"estimatedValue,omitempty" validate:"omitempty,gte=0"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate,omitempty"`
}

// LeadStatusRequest cambio de estado de un lead.
type LeadStatusRequest struct {
	Status string `json:"status" validate:"oneof=new contacted qualified proposal_sent negotiating won lost"`
	Notes  string `json:"notes,omitempty"`
}

// LeadStats estadísticas del embudo comercial.
type LeadStats struct {
	Total          int             `json:"total"`
	ByStatus       map[string]int  `json:"byStatus"`
	ByPriority     map[string]int  `json:"byPriority"`
	ConversionRate float64         `json:"conversionRate"` // porcentaje de leads ganados
	TotalValue     decimal.Decimal `json:"totalValue"`
	AverageValue   decimal.Decimal `json:"averageValue"`
}

// ConversionResponse resultado de convertir un lead.
type ConversionResponse struct {
	LeadID   string         `json:"leadId"`
	ClientID string         `json:"clientId"`
	Client   *entity.Client `json:"client"`
}
