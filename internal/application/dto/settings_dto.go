package dto

// ProposalSettingsInput valores por defecto de propuestas.
type ProposalSettingsInput struct {
	DefaultWarrantyPeriod int    `json:"defaultWarrantyPeriod" validate:"gte=0"`
	DefaultPaymentTerms   string `json:"defaultPaymentTerms" validate:"required"`
	ProposalValidityDays  int    `json:"proposalValidityDays" validate:"min=1"`
}

// UpdateSettingsRequest parche de configuración de la empresa.
type UpdateSettingsRequest struct {
	CompanyName      *string                `json:"companyName,omitempty" validate:"omitempty,trimmin=1"`
	TaxNumber        *string                `json:"taxNumber,omitempty"`
	Address          *AddressInput          `json:"address,omitempty"`
	Phone            *string                `json:"phone,omitempty" validate:"omitempty,phone"`
	Email            *string                `json:"email,omitempty" validate:"omitempty,email"`
	Website          *string                `json:"website,omitempty" validate:"omitempty,url"`
	Currency         *string                `json:"currency,omitempty" validate:"omitempty,len=3"`
	Timezone         *string                `json:"timezone,omitempty" validate:"omitempty,timezone"`
	ProposalSettings *ProposalSettingsInput `json:"proposalSettings,omitempty"`
}
