package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/docstore"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner      = entity.Principal{ID: "owner-1", Email: "owner@helio.test", Role: entity.RoleOwner, IsActive: true}
	admin      = entity.Principal{ID: "admin-1", Email: "admin@helio.test", Role: entity.RoleAdmin, IsActive: true}
	salesRep   = entity.Principal{ID: "rep-1", Email: "rep@helio.test", Role: entity.RoleSalesRep, IsActive: true}
	technician = entity.Principal{ID: "tech-1", Email: "tech@helio.test", Role: entity.RoleTechnician, IsActive: true}
)

type fixture struct {
	ctx        context.Context
	store      *memory.DocumentStore
	identities *memory.IdentityProvider
	logs       *docstore.Collection[entity.ActivityLog]
	deps       Deps

	users     *UserUseCase
	clients   *ClientUseCase
	leads     *LeadUseCase
	jobs      *JobUseCase
	products  *ProductUseCase
	proposals *ProposalUseCase
	settings  *SettingsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	clock := now
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	store := memory.NewDocumentStore()
	identities := memory.NewIdentityProvider()
	logs := docstore.NewCollection[entity.ActivityLog](store, entity.CollectionActivityLogs, docstore.WithClock(tick))
	deps := Deps{
		Guard:     authz.NewGuard(identities),
		Audit:     audit.NewLogger(logs),
		Validator: validation.NewWithClock(func() time.Time { return now }),
		Now:       func() time.Time { return now },
	}
	numbers := numbering.NewLastRecord(store)

	users := docstore.NewCollection[entity.User](store, entity.CollectionUsers, docstore.WithClock(tick))
	clients := docstore.NewCollection[entity.Client](store, entity.CollectionClients, docstore.WithClock(tick))
	leads := docstore.NewCollection[entity.Lead](store, entity.CollectionLeads, docstore.WithClock(tick))
	jobs := docstore.NewCollection[entity.Job](store, entity.CollectionJobs, docstore.WithClock(tick))
	products := docstore.NewCollection[entity.Product](store, entity.CollectionProducts, docstore.WithClock(tick))
	proposals := docstore.NewCollection[entity.Proposal](store, entity.CollectionProposals, docstore.WithClock(tick))
	settings := docstore.NewCollection[entity.CompanySettings](store, entity.CollectionCompanySettings, docstore.WithClock(tick))

	for _, p := range []entity.Principal{owner, admin, salesRep, technician} {
		require.NoError(t, identities.Create(context.Background(), entity.Identity{ID: p.ID, Email: p.Email, Role: p.Role}, ""))
	}

	return &fixture{
		ctx:        context.Background(),
		store:      store,
		identities: identities,
		logs:       logs,
		deps:       deps,
		users:      NewUserUseCase(users, identities, deps),
		clients:    NewClientUseCase(clients, deps),
		leads:      NewLeadUseCase(leads, clients, deps),
		jobs:       NewJobUseCase(jobs, clients, numbers, deps),
		products:   NewProductUseCase(products, numbers, deps),
		proposals:  NewProposalUseCase(proposals, clients, settings, numbers, deps),
		settings:   NewSettingsUseCase(settings, deps),
	}
}

func validContact(email string) dto.ContactInput {
	return dto.ContactInput{
		FirstName: "María",
		LastName:  "Peña",
		Email:     email,
		Phone:     "+1 (555) 010-2030",
		Address: dto.AddressInput{
			Street:     "742 Evergreen Terrace",
			City:       "Springfield",
			Province:   "OR",
			PostalCode: "97403",
			Country:    "US",
		},
		Source: "referral",
	}
}

func (f *fixture) createClient(t *testing.T, email string) *entity.Client {
	t.Helper()
	c, err := f.clients.Create(f.ctx, owner, dto.CreateClientRequest{ContactInput: validContact(email)})
	require.NoError(t, err)
	return c
}

func (f *fixture) createJob(t *testing.T, clientID string) *entity.Job {
	t.Helper()
	j, err := f.jobs.Create(f.ctx, owner, dto.CreateJobRequest{
		Title:       "Instalación residencial",
		Description: "Sistema de 8 kW sobre techo de tejas",
		ClientID:    clientID,
		SiteAddress: dto.SiteAddressInput{AddressInput: validContact("x@helio.test").Address},
	})
	require.NoError(t, err)
	return j
}

func (f *fixture) logsOfType(t *testing.T, logType entity.LogType) []*entity.ActivityLog {
	t.Helper()
	all, err := f.deps.Audit.Recent(f.ctx, 500)
	require.NoError(t, err)
	var out []*entity.ActivityLog
	for _, l := range all {
		if l.Type == logType {
			out = append(out, l)
		}
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestClientUseCase_CreateDefaultsAndLogs(t *testing.T) {
	f := newFixture(t)

	c := f.createClient(t, "  Maria@Example.COM ")

	assert.Equal(t, "maria@example.com", c.Email)
	assert.Equal(t, entity.ClientStatusLead, c.Status)
	assert.True(t, c.TotalRevenue.IsZero())
	assert.Equal(t, 0, c.TotalJobs)

	created := f.logsOfType(t, entity.LogClientCreated)
	require.Len(t, created, 1)
	assert.Equal(t, owner.ID, created[0].UserID)
	assert.Equal(t, c.ID, created[0].TargetResourceID)
	assert.Equal(t, entity.ResourceClient, created[0].TargetResourceType)
}

func TestClientUseCase_DuplicateEmailWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.createClient(t, "dup@example.com")
	writes := f.store.Writes()

	_, err := f.clients.Create(f.ctx, owner, dto.CreateClientRequest{ContactInput: validContact("DUP@example.com")})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, writes, f.store.Writes())
	assert.Equal(t, 1, f.store.Count(entity.CollectionClients))
}

func TestClientUseCase_ValidationReportsEveryViolation(t *testing.T) {
	f := newFixture(t)
	in := validContact("not-an-email")
	in.FirstName = " A "
	in.Phone = "123"
	in.Source = "billboard"
	in.Address.PostalCode = "!"

	_, err := f.clients.Create(f.ctx, owner, dto.CreateClientRequest{ContactInput: in})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, domain.DetailsOf(err), 5)
	assert.Equal(t, 0, f.store.Writes())
}

func TestClientUseCase_PermissionDeniedHasNoSideEffects(t *testing.T) {
	f := newFixture(t)

	_, err := f.clients.Create(f.ctx, technician, dto.CreateClientRequest{ContactInput: validContact("t@example.com")})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, 0, f.store.Writes())
}

func TestClientUseCase_SalesRepOwnsWhatTheyCreate(t *testing.T) {
	f := newFixture(t)

	c, err := f.clients.Create(f.ctx, salesRep, dto.CreateClientRequest{ContactInput: validContact("rep-client@example.com")})
	require.NoError(t, err)
	assert.Equal(t, salesRep.ID, c.AssignedSalesRep)

	in := validContact("other@example.com")
	in.AssignedSalesRep = "rep-2"
	_, err = f.clients.Create(f.ctx, salesRep, dto.CreateClientRequest{ContactInput: in})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestClientUseCase_LogFailureIsInternalButChangePersists(t *testing.T) {
	f := newFixture(t)
	f.store.FailWrites(entity.CollectionActivityLogs, errors.New("disk full"))

	_, err := f.clients.Create(f.ctx, owner, dto.CreateClientRequest{ContactInput: validContact("kept@example.com")})

	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, 1, f.store.Count(entity.CollectionClients))
	assert.Equal(t, 0, f.store.Count(entity.CollectionActivityLogs))
}

func TestClientUseCase_TagsHaveSetSemantics(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "tags@example.com")

	c, err := f.clients.AddTags(f.ctx, owner, c.ID, dto.TagsRequest{Tags: []string{"vip", "solar", "vip"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"vip", "solar"}, c.Tags)

	c, err = f.clients.RemoveTags(f.ctx, owner, c.ID, dto.TagsRequest{Tags: []string{"vip", "missing"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"solar"}, c.Tags)
}

func TestJobUseCase_CompletionRecomputesClientTotals(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "totals@example.com")
	j1 := f.createJob(t, c.ID)
	j2 := f.createJob(t, c.ID)
	j3 := f.createJob(t, c.ID)
	assert.Equal(t, "JOB-202606-0001", j1.JobNumber)
	assert.Equal(t, "JOB-202606-0003", j3.JobNumber)

	for id, price := range map[string]string{j1.ID: "3000", j2.ID: "4000", j3.ID: "500"} {
		_, err := f.jobs.UpdatePricing(f.ctx, owner, id, dto.JobPricingRequest{FinalPrice: dec(price)})
		require.NoError(t, err)
	}
	for _, id := range []string{j1.ID, j2.ID} {
		_, err := f.jobs.UpdateStatus(f.ctx, owner, id, dto.JobStatusRequest{Status: entity.JobStatusCompleted})
		require.NoError(t, err)
	}

	got, err := f.clients.Get(f.ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalJobs)
	assert.True(t, decimal.NewFromInt(7000).Equal(got.TotalRevenue), "totalRevenue=%s", got.TotalRevenue)
	assert.Len(t, f.logsOfType(t, entity.LogJobCompleted), 2)

	// reabrir un trabajo completado lo saca del total
	_, err = f.jobs.UpdateStatus(f.ctx, owner, j2.ID, dto.JobStatusRequest{Status: entity.JobStatusOnHold})
	require.NoError(t, err)
	got, err = f.clients.Get(f.ctx, owner, c.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3000).Equal(got.TotalRevenue))
}

func TestJobUseCase_StatusSetsActualDates(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "dates@example.com")
	j := f.createJob(t, c.ID)

	j, err := f.jobs.UpdateStatus(f.ctx, owner, j.ID, dto.JobStatusRequest{Status: entity.JobStatusInProgress})
	require.NoError(t, err)
	require.NotNil(t, j.ActualStartDate)
	assert.Nil(t, j.ActualEndDate)

	j, err = f.jobs.UpdateStatus(f.ctx, owner, j.ID, dto.JobStatusRequest{Status: entity.JobStatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, j.ActualEndDate)
}

func TestJobUseCase_CreateRequiresExistingClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.jobs.Create(f.ctx, owner, dto.CreateJobRequest{
		Title:       "Instalación residencial",
		Description: "Sistema de 8 kW sobre techo de tejas",
		ClientID:    "missing",
		SiteAddress: dto.SiteAddressInput{AddressInput: validContact("x@helio.test").Address},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, f.store.Count(entity.CollectionJobs))
}

func TestJobUseCase_FeedbackRatingBounds(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "rating@example.com")
	j := f.createJob(t, c.ID)

	_, err := f.jobs.RecordFeedback(f.ctx, owner, j.ID, dto.FeedbackRequest{Rating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)

	j, err = f.jobs.RecordFeedback(f.ctx, owner, j.ID, dto.FeedbackRequest{Rating: 5, Feedback: "Excelente"})
	require.NoError(t, err)
	assert.Equal(t, 5, j.CustomerRating)
}

func TestJobUseCase_SalesRepManagesAssignedJobs(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "rep-jobs@example.com")
	req := dto.CreateJobRequest{
		Title:            "Instalación residencial",
		Description:      "Sistema de 8 kW sobre techo de tejas",
		ClientID:         c.ID,
		AssignedSalesRep: salesRep.ID,
		SiteAddress:      dto.SiteAddressInput{AddressInput: validContact("x@helio.test").Address},
	}
	mine, err := f.jobs.Create(f.ctx, owner, req)
	require.NoError(t, err)
	req.AssignedSalesRep = "rep-2"
	other, err := f.jobs.Create(f.ctx, owner, req)
	require.NoError(t, err)

	title := "Instalación residencial ampliada"
	got, err := f.jobs.Update(f.ctx, salesRep, mine.ID, dto.UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	got, err = f.jobs.UpdateStatus(f.ctx, salesRep, mine.ID, dto.JobStatusRequest{Status: entity.JobStatusScheduled})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusScheduled, got.Status)

	_, err = f.jobs.Update(f.ctx, salesRep, other.ID, dto.UpdateJobRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	_, err = f.jobs.UpdateStatus(f.ctx, salesRep, other.ID, dto.JobStatusRequest{Status: entity.JobStatusScheduled})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// sin vendedor indicado, el vendedor que crea queda asignado
	req.AssignedSalesRep = ""
	created, err := f.jobs.Create(f.ctx, salesRep, req)
	require.NoError(t, err)
	assert.Equal(t, salesRep.ID, created.AssignedSalesRep)
}

func TestJobUseCase_RepeatedStatusWritesOnce(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "repeat@example.com")
	j := f.createJob(t, c.ID)

	writes := f.store.Writes()
	same, err := f.jobs.UpdateStatus(f.ctx, owner, j.ID, dto.JobStatusRequest{Status: entity.JobStatusPending})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusPending, same.Status)
	assert.Equal(t, writes, f.store.Writes())

	for i := 0; i < 2; i++ {
		_, err := f.jobs.UpdateStatus(f.ctx, owner, j.ID, dto.JobStatusRequest{Status: entity.JobStatusCompleted})
		require.NoError(t, err)
	}

	assert.Len(t, f.logsOfType(t, entity.LogJobCompleted), 1)
	statusChanges := 0
	for _, l := range f.logsOfType(t, entity.LogJobUpdated) {
		if l.Metadata["newStatus"] != nil {
			statusChanges++
		}
	}
	assert.Equal(t, 1, statusChanges)
}

func TestJobUseCase_ReassigningSameTechnicianWritesOnce(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "assign@example.com")
	j := f.createJob(t, c.ID)

	_, err := f.jobs.AssignTechnician(f.ctx, owner, j.ID, dto.AssignTechnicianRequest{TechnicianID: technician.ID})
	require.NoError(t, err)
	writes := f.store.Writes()
	got, err := f.jobs.AssignTechnician(f.ctx, owner, j.ID, dto.AssignTechnicianRequest{TechnicianID: technician.ID})
	require.NoError(t, err)

	assert.Equal(t, technician.ID, got.AssignedTechnician)
	assert.Equal(t, writes, f.store.Writes())
	assert.Len(t, f.logsOfType(t, entity.LogJobUpdated), 1)
}

func TestJobUseCase_RepeatedScheduleAndFeedbackWriteOnce(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "schedule@example.com")
	j := f.createJob(t, c.ID)
	when := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	_, err := f.jobs.Schedule(f.ctx, owner, j.ID, dto.ScheduleJobRequest{ScheduledDate: when})
	require.NoError(t, err)
	_, err = f.jobs.RecordFeedback(f.ctx, owner, j.ID, dto.FeedbackRequest{Rating: 4, Feedback: "Muy bien"})
	require.NoError(t, err)
	writes := f.store.Writes()

	got, err := f.jobs.Schedule(f.ctx, owner, j.ID, dto.ScheduleJobRequest{ScheduledDate: when})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusScheduled, got.Status)
	_, err = f.jobs.RecordFeedback(f.ctx, owner, j.ID, dto.FeedbackRequest{Rating: 4, Feedback: "Muy bien"})
	require.NoError(t, err)

	assert.Equal(t, writes, f.store.Writes())
	assert.Len(t, f.logsOfType(t, entity.LogJobUpdated), 2)
}

func TestProductUseCase_ToggleToSameStatusWritesNothing(t *testing.T) {
	f := newFixture(t)
	p, err := f.products.Create(f.ctx, owner, dto.CreateProductRequest{
		Name:         "Inversor 5kW",
		Category:     "inverter",
		CostPrice:    decimal.NewFromInt(800),
		SellingPrice: decimal.NewFromInt(1100),
	})
	require.NoError(t, err)
	before := len(f.logsOfType(t, entity.LogOther))

	writes := f.store.Writes()
	same, err := f.products.ToggleStatus(f.ctx, owner, p.ID, true)
	require.NoError(t, err)
	assert.True(t, same.IsActive)
	assert.Equal(t, writes, f.store.Writes())

	for i := 0; i < 2; i++ {
		got, err := f.products.ToggleStatus(f.ctx, owner, p.ID, false)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	}
	assert.Len(t, f.logsOfType(t, entity.LogOther), before+1)
}

func TestProductUseCase_LowStockAlertIsEdgeTriggered(t *testing.T) {
	f := newFixture(t)
	minimum := 10
	p, err := f.products.Create(f.ctx, owner, dto.CreateProductRequest{
		Name:          "Panel 450W",
		Category:      "panel",
		CostPrice:     decimal.NewFromInt(120),
		SellingPrice:  decimal.NewFromInt(180),
		StockQuantity: 15,
		MinimumStock:  &minimum,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAN-", p.SKU[:4])

	steps := []dto.StockUpdateRequest{
		{Quantity: 6, Operation: dto.StockSubtract}, // 9: cruza
		{Quantity: 1, Operation: dto.StockSubtract}, // 8
		{Quantity: 4, Operation: dto.StockAdd},      // 12
		{Quantity: 7, Operation: dto.StockSet},      // 7: cruza otra vez
	}
	for _, s := range steps {
		p, err = f.products.UpdateStock(f.ctx, owner, p.ID, s)
		require.NoError(t, err)
	}
	assert.Equal(t, 7, p.StockQuantity)

	var alerts int
	for _, l := range f.logsOfType(t, entity.LogOther) {
		if l.UserID == entity.SystemActor {
			alerts++
			assert.Equal(t, p.ID, l.TargetResourceID)
		}
	}
	assert.Equal(t, 2, alerts)
	assert.Len(t, f.logsOfType(t, entity.LogStockUpdated), 4)
}

func TestProductUseCase_StockNeverNegative(t *testing.T) {
	assert.Equal(t, 0, nextStock(3, 5, dto.StockSubtract))
	assert.Equal(t, 8, nextStock(3, 5, dto.StockAdd))
	assert.Equal(t, 5, nextStock(3, 5, dto.StockSet))
}

func TestProductUseCase_OnlyOwnerOrAdminMutate(t *testing.T) {
	f := newFixture(t)

	_, err := f.products.Create(f.ctx, salesRep, dto.CreateProductRequest{
		Name:         "Inversor 5kW",
		Category:     "inverter",
		CostPrice:    decimal.NewFromInt(800),
		SellingPrice: decimal.NewFromInt(1100),
	})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, 0, f.store.Writes())
}

func TestProposalUseCase_PricingChangeBumpsVersion(t *testing.T) {
	f := newFixture(t)
	c := f.createClient(t, "proposal@example.com")
	pricing := dto.PricingInput{
		SystemCost:   decimal.NewFromInt(9000),
		TotalCost:    decimal.NewFromInt(9000),
		FinalAmount:  decimal.NewFromInt(9900),
		Currency:     "USD",
		PaymentTerms: "Net 30",
	}
	p, err := f.proposals.Create(f.ctx, owner, dto.CreateProposalRequest{Title: "Sistema 8 kW", ClientID: c.ID, Pricing: pricing})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, "PROP-2026-0001", p.ProposalNumber)
	assert.Equal(t, entity.ProposalStatusDraft, p.Status)
	assert.True(t, f.deps.now().AddDate(0, 0, DefaultProposalValidityDays).Equal(p.ValidUntil))

	title := "Sistema 8 kW con baterías"
	p, err = f.proposals.Update(f.ctx, owner, p.ID, dto.UpdateProposalRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)

	pricing.FinalAmount = decimal.NewFromInt(12500)
	p, err = f.proposals.Update(f.ctx, owner, p.ID, dto.UpdateProposalRequest{Pricing: &pricing})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)

	p, err = f.proposals.UpdateStatus(f.ctx, owner, p.ID, dto.ProposalStatusRequest{Status: entity.ProposalStatusRejected, RejectionReason: "precio"})
	require.NoError(t, err)
	require.NotNil(t, p.ResponseDate)
	assert.Equal(t, "precio", p.RejectionReason)
	assert.Len(t, f.logsOfType(t, entity.LogProposalRejected), 1)
}

func TestLeadUseCase_ConvertToClient(t *testing.T) {
	f := newFixture(t)
	lead, err := f.leads.Create(f.ctx, owner, dto.CreateLeadRequest{ContactInput: validContact("lead@example.com")})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)

	res, err := f.leads.ConvertToClient(f.ctx, owner, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusCustomer, res.Client.Status)
	require.NotNil(t, res.Client.LastContactDate)

	got, err := f.leads.Get(f.ctx, owner, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusWon, got.Status)
	require.NotNil(t, got.ConversionDate)

	_, err = f.leads.ConvertToClient(f.ctx, owner, lead.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 1, f.store.Count(entity.CollectionClients))
}

func TestUserUseCase_ChangeRole(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.identities.Create(f.ctx, entity.Identity{ID: "new-1", Email: "new@helio.test"}, ""))

	err := f.users.ChangeRole(f.ctx, admin, "new-1", entity.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, f.logsOfType(t, entity.LogRoleChanged))

	require.NoError(t, f.users.ChangeRole(f.ctx, owner, "new-1", entity.RoleSalesRep))

	entries := f.logsOfType(t, entity.LogRoleChanged)
	require.Len(t, entries, 1)
	assert.Equal(t, "none", entries[0].Metadata["oldRole"])
	assert.Equal(t, string(entity.RoleSalesRep), entries[0].Metadata["newRole"])
	assert.Equal(t, "new-1", entries[0].TargetUserID)

	identity, err := f.identities.ResolveCaller(f.ctx, "new-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSalesRep, identity.Role)
}

func TestUserUseCase_DeactivateSelfDenied(t *testing.T) {
	f := newFixture(t)

	err := f.users.Deactivate(f.ctx, owner, owner.ID, "")

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, 0, f.store.Writes())
}

func TestUserUseCase_MissingTargetIsNotFound(t *testing.T) {
	f := newFixture(t)

	// el destino se resuelve antes de evaluar la regla de roles
	err := f.users.ChangeRole(f.ctx, admin, "ghost", entity.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = f.users.Deactivate(f.ctx, owner, "ghost", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = f.users.Reactivate(f.ctx, owner, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 0, f.store.Writes())
}

func TestUserUseCase_DeactivateDisablesIdentity(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.users.Deactivate(f.ctx, admin, technician.ID, "baja"))

	_, err := f.deps.Guard.Resolve(f.ctx, technician.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	entries := f.logsOfType(t, entity.LogUserDeactivated)
	require.Len(t, entries, 1)
	assert.Equal(t, "baja", entries[0].Metadata["reason"])
}

func TestSettingsUseCase_DefaultsUntilSaved(t *testing.T) {
	f := newFixture(t)

	s, err := f.settings.Get(f.ctx, technician)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, s.Currency)

	_, err = f.settings.Get(f.ctx, entity.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.settings.Update(f.ctx, admin, dto.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestFoldText(t *testing.T) {
	assert.True(t, matchesTerm("pena", "María Peña"))
	assert.True(t, matchesTerm("", "x"))
	assert.False(t, matchesTerm("gomez", "María Peña"))
}
