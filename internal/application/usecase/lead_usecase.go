package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LeadUseCase embudo comercial: alta de leads, cambios de estado y conversión a cliente.
// Los leads se registran en el historial como recursos de tipo client.
type LeadUseCase struct {
	leads   repository.Repository[entity.Lead]
	clients repository.Repository[entity.Client]
	Deps
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leads repository.Repository[entity.Lead], clients repository.Repository[entity.Client], deps Deps) *LeadUseCase {
	return &LeadUseCase{leads: leads, clients: clients, Deps: deps}
}

// Create da de alta un lead (estado new y prioridad medium por defecto). Email único entre leads.
func (uc *LeadUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateLeadRequest) (*entity.Lead, error) {
	if err := uc.Guard.Authorize(caller, entity.PermManageClients); err != nil {
		return nil, err
	}
	if caller.Role == entity.RoleSalesRep && in.AssignedSalesRep == "" {
		in.AssignedSalesRep = caller.ID
	}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityLead, entity.Ownership{AssignedSalesRep: in.AssignedSalesRep}); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	dup, err := existsWithEmail(ctx, uc.leads, in.Email, "", func(l *entity.Lead) string { return l.ID })
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewError(domain.ErrAlreadyExists, "ya existe un lead con este email")
	}

	lead := &entity.Lead{
		Base:              entity.Base{ID: uuid.New().String()},
		Contact:           in.ToEntity(),
		Status:            entity.LeadStatusNew,
		Priority:          in.Priority,
		EstimatedValue:    in.EstimatedValue,
		ExpectedCloseDate: in.ExpectedCloseDate,
	}
	lead.Email = normalizeEmail(lead.Email)
	if lead.Priority == "" {
		lead.Priority = entity.PriorityMedium
	}
	id, err := uc.leads.Create(ctx, lead, caller.ID)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceClient, id)
	meta["leadStatus"] = lead.Status
	meta["leadPriority"] = lead.Priority
	_, err = uc.Audit.Log(ctx, entity.LogClientCreated, caller.ID,
		fmt.Sprintf("Lead creado: %s (%s)", lead.FullName(), lead.Email), meta)
	return lead, logged("lead.create", id, err)
}

// Get devuelve el lead si quien llama tiene acceso.
func (uc *LeadUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.Lead, error) {
	lead, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityLead, ownershipOf(lead.Contact)); err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus cambia el estado. Al perderse, las notas quedan como motivo.
func (uc *LeadUseCase) UpdateStatus(ctx context.Context, caller entity.Principal, id string, in dto.LeadStatusRequest) (*entity.Lead, error) {
	lead, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, lead); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{"status": in.Status}
	if in.Status == entity.LeadStatusLost && in.Notes != "" {
		patch["lostReason"] = in.Notes
	}
	if err := uc.leads.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceClient, id)
	meta["oldStatus"] = lead.Status
	meta["newStatus"] = in.Status
	if in.Notes != "" {
		meta["notes"] = in.Notes
	}
	_, err = uc.Audit.Log(ctx, entity.LogClientUpdated, caller.ID,
		fmt.Sprintf("Estado del lead %s: %s -> %s", lead.FullName(), lead.Status, in.Status), meta)
	return updated, logged("lead.status", id, err)
}

// ConvertToClient crea un cliente (estado customer) con los datos del lead y marca el lead como won.
// Un lead ya ganado no se convierte de nuevo.
func (uc *LeadUseCase) ConvertToClient(ctx context.Context, caller entity.Principal, id string) (*dto.ConversionResponse, error) {
	lead, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, lead); err != nil {
		return nil, err
	}
	if lead.Status == entity.LeadStatusWon {
		return nil, domain.NewError(domain.ErrInvalidArgument, "el lead ya fue convertido")
	}
	dup, err := existsWithEmail(ctx, uc.clients, lead.Email, "", func(c *entity.Client) string { return c.ID })
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewError(domain.ErrAlreadyExists, "ya existe un cliente con este email")
	}

	now := uc.now()
	contact := lead.Contact
	contact.LastContactDate = ptrTime(now)
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	client := &entity.Client{
		Base:         entity.Base{ID: uuid.New().String()},
		Contact:      contact,
		Status:       entity.ClientStatusCustomer,
		TotalRevenue: decimal.Zero,
	}
	clientID, err := uc.clients.Create(ctx, client, caller.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.leads.Update(ctx, id, repository.Document{"status": entity.LeadStatusWon, "conversionDate": now}, caller.ID); err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceClient, clientID)
	meta["originalLeadId"] = id
	meta["conversionDate"] = now
	_, err = uc.Audit.Log(ctx, entity.LogClientCreated, caller.ID,
		fmt.Sprintf("Lead convertido en cliente: %s", lead.FullName()), meta)
	return &dto.ConversionResponse{LeadID: id, ClientID: clientID, Client: client}, logged("lead.convert", id, err)
}

// ByStatus leads en el estado indicado, visibles para quien llama.
func (uc *LeadUseCase) ByStatus(ctx context.Context, caller entity.Principal, status string, req dto.PageRequest) (*dto.ListResponse[entity.Lead], error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if status != "" {
		q = q.Where("status", repository.OpEqual, status)
	}
	p, err := uc.leads.QueryPaginated(ctx, q.Order("createdAt", repository.Desc), req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, func(l *entity.Lead) bool {
		return authz.CanAccessEntity(caller, authz.EntityLead, ownershipOf(l.Contact))
	}), nil
}

// Stats conteos por estado y prioridad, tasa de conversión (% won) y valor estimado.
func (uc *LeadUseCase) Stats(ctx context.Context, caller entity.Principal) (*dto.LeadStats, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	return uc.stats(ctx)
}

func (uc *LeadUseCase) stats(ctx context.Context) (*dto.LeadStats, error) {
	leads, err := uc.leads.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.LeadStats{
		Total:      len(leads),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		TotalValue: decimal.Zero,
	}
	won := 0
	for _, l := range leads {
		out.ByStatus[l.Status]++
		out.ByPriority[l.Priority]++
		if l.EstimatedValue != nil {
			out.TotalValue = out.TotalValue.Add(*l.EstimatedValue)
		}
		if l.Status == entity.LeadStatusWon {
			won++
		}
	}
	if len(leads) > 0 {
		out.ConversionRate = float64(won) / float64(len(leads)) * 100
	}
	out.AverageValue = average(out.TotalValue, len(leads))
	return out, nil
}

func (uc *LeadUseCase) load(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, notFound("lead")
	}
	return lead, nil
}

func (uc *LeadUseCase) authorizeMutation(caller entity.Principal, lead *entity.Lead) error {
	if err := uc.Guard.Authorize(caller, entity.PermManageClients); err != nil {
		return err
	}
	return uc.Guard.AuthorizeEntity(caller, authz.EntityLead, ownershipOf(lead.Contact))
}
