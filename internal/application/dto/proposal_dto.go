package dto

import (
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PricingInput desglose financiero de una propuesta.
type PricingInput struct {
	SystemCost       decimal.Decimal `json:"systemCost" validate:"gte=0"`
	InstallationCost decimal.Decimal `json:"installationCost" validate:"gte=0"`
	PermitsCost      decimal.Decimal `json:"permitsCost" validate:"gte=0"`
	TotalCost        decimal.Decimal `json:"totalCost" validate:"gte=0"`
	TaxAmount        decimal.Decimal `json:"taxAmount" validate:"gte=0"`
	FinalAmount      decimal.Decimal `json:"finalAmount" validate:"gte=0"`
	Currency         string          `json:"currency" validate:"len=3"`
	PaymentTerms     string          `json:"paymentTerms" validate:"required"`
}

// ToEntity convierte al desglose del dominio.
func (p PricingInput) ToEntity() entity.ProposalPricing {
	return entity.ProposalPricing{
		SystemCost:       p.SystemCost,
		InstallationCost: p.InstallationCost,
		PermitsCost:      p.PermitsCost,
		TotalCost:        p.TotalCost,
		TaxAmount:        p.TaxAmount,
		FinalAmount:      p.FinalAmount,
		Currency:         p.Currency,
		PaymentTerms:     p.PaymentTerms,
	}
}

// LineItemInput línea de producto.
type LineItemInput struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	TotalPrice  decimal.Decimal `json:"totalPrice" validate:"gte=0"`
	Description string          `json:"description,omitempty"`
}

// ToLineItems convierte las líneas al dominio.
func ToLineItems(in []LineItemInput) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(in))
	for _, li := range in {
		out = append(out, entity.LineItem{
			ProductID:   li.ProductID,
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TotalPrice:  li.TotalPrice,
			Description: li.Description,
		})
	}
	return out
}

// CreateProposalRequest alta de propuesta. El número y la versión los asigna el sistema.
type CreateProposalRequest struct {
	Title         string          `json:"title" validate:"trimmin=2"`
	ClientID      string          `json:"clientId" validate:"required"`
	JobID         string          `json:"jobId,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty" validate:"omitempty,future"`
	Pricing       PricingInput    `json:"pricing"`
	LineItems     []LineItemInput `json:"lineItems" validate:"dive"`
	CustomerNotes string          `json:"customerNotes,omitempty"`
	InternalNotes string          `json:"internalNotes,omitempty"`
}

// UpdateProposalRequest parche de propuesta; cambiar pricing o lineItems crea una nueva versión.
type UpdateProposalRequest struct {
	Title         *string         `json:"title,omitempty" validate:"omitempty,trimmin=2"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty" validate:"omitempty,future"`
	Pricing       *PricingInput   `json:"pricing,omitempty"`
	LineItems     []LineItemInput `json:"lineItems,omitempty" validate:"omitempty,dive"`
	CustomerNotes *string         `json:"customerNotes,omitempty"`
	InternalNotes *string         `json:"internalNotes,omitempty"`
}

// ProposalStatusRequest cambio de estado de una propuesta.
type ProposalStatusRequest struct {
	Status          string `json:"status" validate:"oneof=draft sent viewed accepted rejected expired"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}
