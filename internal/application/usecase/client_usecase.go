package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// topClientsLimit cantidad de clientes en el ranking por facturación.
const topClientsLimit = 10

// ClientUseCase casos de uso de clientes.
type ClientUseCase struct {
	clients repository.Repository[entity.Client]
	Deps
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clients repository.Repository[entity.Client], deps Deps) *ClientUseCase {
	return &ClientUseCase{clients: clients, Deps: deps}
}

// Create da de alta un cliente con totales en cero. El email es único entre clientes.
// Un sales_rep que no indica responsable queda asignado como tal.
func (uc *ClientUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateClientRequest) (*entity.Client, error) {
	if err := uc.Guard.Authorize(caller, entity.PermManageClients); err != nil {
		return nil, err
	}
	if caller.Role == entity.RoleSalesRep && in.AssignedSalesRep == "" {
		in.AssignedSalesRep = caller.ID
	}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityClient, entity.Ownership{AssignedSalesRep: in.AssignedSalesRep}); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	dup, err := existsWithEmail(ctx, uc.clients, in.Email, "", func(c *entity.Client) string { return c.ID })
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewError(domain.ErrAlreadyExists, "ya existe un cliente con este email")
	}

	client := &entity.Client{
		Base:         entity.Base{ID: uuid.New().String()},
		Contact:      in.ToEntity(),
		Status:       in.Status,
		TotalRevenue: decimal.Zero,
	}
	client.Email = normalizeEmail(client.Email)
	if client.Status == "" {
		client.Status = entity.ClientStatusLead
	}
	id, err := uc.clients.Create(ctx, client, caller.ID)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceClient, id)
	meta["clientStatus"] = client.Status
	meta["clientSource"] = client.Source
	_, err = uc.Audit.Log(ctx, entity.LogClientCreated, caller.ID,
		fmt.Sprintf("Cliente creado: %s (%s)", client.FullName(), client.Email), meta)
	return client, logged("client.create", id, err)
}

// Get devuelve el cliente si quien llama tiene acceso a él.
func (uc *ClientUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.Client, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityClient, ownershipOf(client.Contact)); err != nil {
		return nil, err
	}
	return client, nil
}

// Update aplica el parche. Si cambia el email, debe seguir siendo único.
func (uc *ClientUseCase) Update(ctx context.Context, caller entity.Principal, id string, in dto.UpdateClientRequest) (*entity.Client, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, client); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
		if email != client.Email {
			dup, err := existsWithEmail(ctx, uc.clients, email, id, func(c *entity.Client) string { return c.ID })
			if err != nil {
				return nil, err
			}
			if dup {
				return nil, domain.NewError(domain.ErrAlreadyExists, "otro cliente ya usa este email")
			}
		}
	}
	return uc.apply(ctx, caller, client, in, "Cliente actualizado")
}

// AddTags agrega etiquetas sin duplicar.
func (uc *ClientUseCase) AddTags(ctx context.Context, caller entity.Principal, id string, in dto.TagsRequest) (*entity.Client, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, client); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	tags := append([]string{}, client.Tags...)
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[t] = true
	}
	for _, t := range in.Tags {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return uc.apply(ctx, caller, client, repository.Document{"tags": tags}, "Etiquetas agregadas al cliente")
}

// RemoveTags quita las etiquetas indicadas.
func (uc *ClientUseCase) RemoveTags(ctx context.Context, caller entity.Principal, id string, in dto.TagsRequest) (*entity.Client, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, client); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(in.Tags))
	for _, t := range in.Tags {
		drop[t] = true
	}
	tags := make([]string, 0, len(client.Tags))
	for _, t := range client.Tags {
		if !drop[t] {
			tags = append(tags, t)
		}
	}
	return uc.apply(ctx, caller, client, repository.Document{"tags": tags}, "Etiquetas quitadas del cliente")
}

// UpdateLastContact registra un contacto ahora y, opcionalmente, el próximo seguimiento.
func (uc *ClientUseCase) UpdateLastContact(ctx context.Context, caller entity.Principal, id string, in dto.ContactRequest) (*entity.Client, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, client); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{"lastContactDate": uc.now()}
	if in.NextFollowUpDate != nil {
		patch["nextFollowUpDate"] = in.NextFollowUpDate.UTC()
	}
	return uc.apply(ctx, caller, client, patch, "Contacto registrado con el cliente")
}

// FollowUps clientes no inactivos cuyo seguimiento vence hoy o antes.
func (uc *ClientUseCase) FollowUps(ctx context.Context, caller entity.Principal) ([]*entity.Client, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	now := uc.now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	q := repository.NewQuery().
		Where("nextFollowUpDate", repository.OpLess, endOfToday).
		Order("nextFollowUpDate", repository.Asc)
	clients, err := uc.clients.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(clients))
	for _, c := range clients {
		if c.Status != entity.ClientStatusInactive && uc.visible(caller, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// List página de clientes visibles para quien llama, más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context, caller entity.Principal, status string, req dto.PageRequest) (*dto.ListResponse[entity.Client], error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if status != "" {
		q = q.Where("status", repository.OpEqual, status)
	}
	p, err := uc.clients.QueryPaginated(ctx, q.Order("createdAt", repository.Desc), req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, func(c *entity.Client) bool { return uc.visible(caller, c) }), nil
}

// Search filtros conjuntivos; las etiquetas coinciden si el cliente tiene alguna.
func (uc *ClientUseCase) Search(ctx context.Context, caller entity.Principal, f dto.ClientSearchRequest) ([]*entity.Client, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessClientData); err != nil {
		return nil, err
	}
	q := repository.NewQuery()
	if f.Status != "" {
		q = q.Where("status", repository.OpEqual, f.Status)
	}
	if f.Source != "" {
		q = q.Where("source", repository.OpEqual, f.Source)
	}
	if f.AssignedSalesRep != "" {
		q = q.Where("assignedSalesRep", repository.OpEqual, f.AssignedSalesRep)
	}
	clients, err := uc.clients.Query(ctx, q.Order("createdAt", repository.Desc))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(clients))
	for _, c := range clients {
		if !uc.visible(caller, c) {
			continue
		}
		if !matchesTerm(f.Term, c.FirstName, c.LastName, c.Email, c.Company) {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(c.Tags, f.Tags) {
			continue
		}
		if f.MinRevenue != nil && c.TotalRevenue.LessThan(*f.MinRevenue) {
			continue
		}
		if f.MaxRevenue != nil && c.TotalRevenue.GreaterThan(*f.MaxRevenue) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Stats totales por estado y origen, facturación total y promedio, y los diez que más facturan.
func (uc *ClientUseCase) Stats(ctx context.Context, caller entity.Principal) (*dto.ClientStats, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	return uc.stats(ctx)
}

func (uc *ClientUseCase) stats(ctx context.Context) (*dto.ClientStats, error) {
	clients, err := uc.clients.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.ClientStats{
		Total:        len(clients),
		ByStatus:     make(map[string]int),
		BySource:     make(map[string]int),
		TotalRevenue: decimal.Zero,
	}
	for _, c := range clients {
		out.ByStatus[c.Status]++
		out.BySource[c.Source]++
		out.TotalRevenue = out.TotalRevenue.Add(c.TotalRevenue)
	}
	out.AverageRevenue = average(out.TotalRevenue, len(clients))

	sort.SliceStable(clients, func(i, j int) bool { return clients[i].TotalRevenue.GreaterThan(clients[j].TotalRevenue) })
	if len(clients) > topClientsLimit {
		clients = clients[:topClientsLimit]
	}
	out.TopClients = clients
	return out, nil
}

// Activity historial del cliente, más reciente primero.
func (uc *ClientUseCase) Activity(ctx context.Context, caller entity.Principal, id string, limit int) ([]*entity.ActivityLog, error) {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return uc.Audit.ByResource(ctx, id, entity.ResourceClient, limit)
}

func (uc *ClientUseCase) load(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, notFound("cliente")
	}
	return client, nil
}

func (uc *ClientUseCase) authorizeMutation(caller entity.Principal, client *entity.Client) error {
	if err := uc.Guard.Authorize(caller, entity.PermManageClients); err != nil {
		return err
	}
	return uc.Guard.AuthorizeEntity(caller, authz.EntityClient, ownershipOf(client.Contact))
}

func (uc *ClientUseCase) visible(caller entity.Principal, c *entity.Client) bool {
	return authz.CanAccessEntity(caller, authz.EntityClient, ownershipOf(c.Contact))
}

// apply persiste el parche y registra client_updated solo si hubo cambios.
func (uc *ClientUseCase) apply(ctx context.Context, caller entity.Principal, client *entity.Client, patch any, what string) (*entity.Client, error) {
	changes, err := audit.Diff(client, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return client, nil
	}
	if err := uc.clients.Update(ctx, client.ID, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogClientUpdated, caller.ID,
		fmt.Sprintf("%s: %s", what, client.FullName()), changes, audit.Target(entity.ResourceClient, client.ID))
	return updated, logged("client.update", client.ID, err)
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// average total/n redondeado a centavos; cero si no hay elementos.
func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}
