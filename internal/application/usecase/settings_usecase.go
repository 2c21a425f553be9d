package usecase

import (
	"context"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// SettingsUseCase configuración única de la empresa.
type SettingsUseCase struct {
	settings repository.Repository[entity.CompanySettings]
	Deps
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settings repository.Repository[entity.CompanySettings], deps Deps) *SettingsUseCase {
	return &SettingsUseCase{settings: settings, Deps: deps}
}

// DefaultSettings configuración vigente mientras el Owner no guarde otra.
func DefaultSettings() *entity.CompanySettings {
	return &entity.CompanySettings{
		Base:     entity.Base{ID: entity.CompanySettingsID},
		Currency: DefaultCurrency,
		Timezone: "UTC",
		ProposalSettings: entity.ProposalSettings{
			DefaultWarrantyPeriod: 25,
			DefaultPaymentTerms:   "Net 30",
			ProposalValidityDays:  DefaultProposalValidityDays,
		},
	}
}

// Get cualquier usuario autenticado puede leer la configuración.
func (uc *SettingsUseCase) Get(ctx context.Context, caller entity.Principal) (*entity.CompanySettings, error) {
	if caller.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	s, err := uc.settings.GetByID(ctx, entity.CompanySettingsID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return DefaultSettings(), nil
	}
	return s, nil
}

// Update solo el Owner (manage-company-settings). El primer guardado crea el documento.
func (uc *SettingsUseCase) Update(ctx context.Context, caller entity.Principal, in dto.UpdateSettingsRequest) (*entity.CompanySettings, error) {
	current, err := uc.settings.GetByID(ctx, entity.CompanySettingsID)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.Authorize(caller, entity.PermManageCompanySettings); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	if current == nil {
		current = DefaultSettings()
		if _, err := uc.settings.Create(ctx, current, caller.ID); err != nil {
			return nil, err
		}
	}
	changes, err := audit.Diff(current, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return current, nil
	}
	if err := uc.settings.Update(ctx, entity.CompanySettingsID, in, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.settings.GetByID(ctx, entity.CompanySettingsID)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogSettingsChanged, caller.ID, "Configuración de la empresa actualizada",
		changes, audit.Target(entity.ResourceSettings, entity.CompanySettingsID))
	return updated, logged("settings.update", entity.CompanySettingsID, err)
}
