package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// DefaultProposalValidityDays vigencia de una propuesta si la configuración no indica otra.
const DefaultProposalValidityDays = 30

// ProposalUseCase propuestas comerciales con número PROP-YYYY-NNNN y control de versión.
type ProposalUseCase struct {
	proposals repository.Repository[entity.Proposal]
	clients   repository.Repository[entity.Client]
	settings  repository.Repository[entity.CompanySettings]
	numbers   numbering.Generator
	Deps
}

// NewProposalUseCase construye el caso de uso.
func NewProposalUseCase(
	proposals repository.Repository[entity.Proposal],
	clients repository.Repository[entity.Client],
	settings repository.Repository[entity.CompanySettings],
	numbers numbering.Generator,
	deps Deps,
) *ProposalUseCase {
	return &ProposalUseCase{proposals: proposals, clients: clients, settings: settings, numbers: numbers, Deps: deps}
}

// Create genera la propuesta en borrador, versión 1. Sin validUntil vence a los
// proposalValidityDays de la configuración.
func (uc *ProposalUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateProposalRequest) (*entity.Proposal, error) {
	if err := uc.Guard.Authorize(caller, entity.PermManageProposals); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, notFound("cliente")
	}
	now := uc.now()
	number, err := uc.numbers.Next(ctx, numbering.ProposalNumber(now))
	if err != nil {
		return nil, fmt.Errorf("generar número de propuesta: %w", err)
	}

	proposal := &entity.Proposal{
		Base:           entity.Base{ID: uuid.New().String()},
		ProposalNumber: number,
		Title:          in.Title,
		ClientID:       in.ClientID,
		JobID:          in.JobID,
		Status:         entity.ProposalStatusDraft,
		Version:        1,
		Pricing:        in.Pricing.ToEntity(),
		LineItems:      dto.ToLineItems(in.LineItems),
		CustomerNotes:  in.CustomerNotes,
		InternalNotes:  in.InternalNotes,
	}
	if in.ValidUntil != nil {
		proposal.ValidUntil = in.ValidUntil.UTC()
	} else {
		days, err := uc.validityDays(ctx)
		if err != nil {
			return nil, err
		}
		proposal.ValidUntil = now.AddDate(0, 0, days)
	}
	id, err := uc.proposals.Create(ctx, proposal, caller.ID)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceProposal, id)
	meta["proposalNumber"] = number
	meta["clientId"] = proposal.ClientID
	meta["finalAmount"] = proposal.Pricing.FinalAmount.String()
	_, err = uc.Audit.Log(ctx, entity.LogProposalGenerated, caller.ID,
		fmt.Sprintf("Propuesta %s generada para %s", number, client.FullName()), meta)
	return proposal, logged("proposal.create", id, err)
}

// Get devuelve la propuesta.
func (uc *ProposalUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.Proposal, error) {
	proposal, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	return proposal, nil
}

// Update aplica el parche; si cambian precios o líneas la versión avanza en uno.
func (uc *ProposalUseCase) Update(ctx context.Context, caller entity.Principal, id string, in dto.UpdateProposalRequest) (*entity.Proposal, error) {
	proposal, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.Authorize(caller, entity.PermManageProposals); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	changes, err := audit.Diff(proposal, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return proposal, nil
	}
	patch, err := repository.ToDocument(in)
	if err != nil {
		return nil, err
	}
	if changes.Has("pricing") || changes.Has("lineItems") {
		patch["version"] = proposal.Version + 1
		changes["version"] = audit.Change{Old: proposal.Version, New: proposal.Version + 1}
	}
	if err := uc.proposals.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogOther, caller.ID,
		fmt.Sprintf("Propuesta %s actualizada", proposal.ProposalNumber), changes, audit.Target(entity.ResourceProposal, id))
	return updated, logged("proposal.update", id, err)
}

// UpdateStatus registra la transición con su fecha: sent fija sentDate, viewed fija viewedDate,
// accepted y rejected fijan responseDate (rejected guarda además el motivo).
func (uc *ProposalUseCase) UpdateStatus(ctx context.Context, caller entity.Principal, id string, in dto.ProposalStatusRequest) (*entity.Proposal, error) {
	proposal, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.Authorize(caller, entity.PermManageProposals); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	patch := repository.Document{"status": in.Status}
	logType := entity.LogOther
	switch in.Status {
	case entity.ProposalStatusSent:
		patch["sentDate"] = now
		logType = entity.LogProposalSent
	case entity.ProposalStatusViewed:
		patch["viewedDate"] = now
	case entity.ProposalStatusAccepted:
		patch["responseDate"] = now
		logType = entity.LogProposalAccepted
	case entity.ProposalStatusRejected:
		patch["responseDate"] = now
		if in.RejectionReason != "" {
			patch["rejectionReason"] = in.RejectionReason
		}
		logType = entity.LogProposalRejected
	}
	if err := uc.proposals.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceProposal, id)
	meta["oldStatus"] = proposal.Status
	meta["newStatus"] = in.Status
	if in.RejectionReason != "" {
		meta["rejectionReason"] = in.RejectionReason
	}
	_, err = uc.Audit.Log(ctx, logType, caller.ID,
		fmt.Sprintf("Propuesta %s: %s -> %s", proposal.ProposalNumber, proposal.Status, in.Status), meta)
	return updated, logged("proposal.status", id, err)
}

// ByClient propuestas de un cliente, más recientes primero.
func (uc *ProposalUseCase) ByClient(ctx context.Context, caller entity.Principal, clientID string) ([]*entity.Proposal, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	return uc.proposals.Query(ctx, repository.NewQuery().
		Where("clientId", repository.OpEqual, clientID).
		Order("createdAt", repository.Desc))
}

// List página de propuestas, filtrable por estado.
func (uc *ProposalUseCase) List(ctx context.Context, caller entity.Principal, status string, req dto.PageRequest) (*dto.ListResponse[entity.Proposal], error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if status != "" {
		q = q.Where("status", repository.OpEqual, status)
	}
	p, err := uc.proposals.QueryPaginated(ctx, q.Order("createdAt", repository.Desc), req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, nil), nil
}

// Expired propuestas cuya vigencia ya pasó.
func (uc *ProposalUseCase) Expired(ctx context.Context, caller entity.Principal) ([]*entity.Proposal, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	return uc.proposals.Query(ctx, repository.NewQuery().
		Where("validUntil", repository.OpLess, uc.now()).
		Order("validUntil", repository.Asc))
}

func (uc *ProposalUseCase) validityDays(ctx context.Context) (int, error) {
	if uc.settings == nil {
		return DefaultProposalValidityDays, nil
	}
	s, err := uc.settings.GetByID(ctx, entity.CompanySettingsID)
	if err != nil {
		return 0, err
	}
	if s == nil || s.ProposalSettings.ProposalValidityDays <= 0 {
		return DefaultProposalValidityDays, nil
	}
	return s.ProposalSettings.ProposalValidityDays, nil
}

func (uc *ProposalUseCase) load(ctx context.Context, id string) (*entity.Proposal, error) {
	proposal, err := uc.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, notFound("propuesta")
	}
	return proposal, nil
}
