package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una propuesta.
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusViewed   = "viewed"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
	ProposalStatusExpired  = "expired"
)

// Proposal propuesta comercial enviada a un cliente.
type Proposal struct {
	Base
	ProposalNumber  string          `json:"proposalNumber"` // PROP-YYYY-NNNN
	Title           string          `json:"title"`
	ClientID        string          `json:"clientId"`
	JobID           string          `json:"jobId,omitempty"`
	Status          string          `json:"status"`
	Version         int             `json:"version"`
	ValidUntil      time.Time       `json:"validUntil"`
	SentDate        *time.Time      `json:"sentDate,omitempty"`
	ViewedDate      *time.Time      `json:"viewedDate,omitempty"`
	ResponseDate    *time.Time      `json:"responseDate,omitempty"`
	Pricing         ProposalPricing `json:"pricing"`
	LineItems       []LineItem      `json:"lineItems"`
	CustomerNotes   string          `json:"customerNotes,omitempty"`
	InternalNotes   string          `json:"internalNotes,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
}

// ProposalPricing desglose financiero.
type ProposalPricing struct {
	SystemCost       decimal.Decimal `json:"systemCost"`
	InstallationCost decimal.Decimal `json:"installationCost"`
	PermitsCost      decimal.Decimal `json:"permitsCost"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
	Currency         string          `json:"currency"`
	PaymentTerms     string          `json:"paymentTerms"`
}

// LineItem línea de producto dentro de la propuesta.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Description string          `json:"description,omitempty"`
}

// CompanySettingsID id del documento único de configuración.
const CompanySettingsID = "default"

// CompanySettings configuración de la empresa (solo Owner puede modificarla).
type CompanySettings struct {
	Base
	CompanyName      string           `json:"companyName"`
	TaxNumber        string           `json:"taxNumber,omitempty"`
	Address          Address          `json:"address"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Website          string           `json:"website,omitempty"`
	Currency         string           `json:"currency"`
	Timezone         string           `json:"timezone"`
	ProposalSettings ProposalSettings `json:"proposalSettings"`
}

// ProposalSettings valores por defecto para nuevas propuestas.
type ProposalSettings struct {
	DefaultWarrantyPeriod int    `json:"defaultWarrantyPeriod"` // años
	DefaultPaymentTerms   string `json:"defaultPaymentTerms"`
	ProposalValidityDays  int    `json:"proposalValidityDays"`
}
