// Package app arma el grafo de casos de uso sobre un almacén de documentos y un proveedor de identidad.
// Lo usan cmd/api, cmd/seed_owner y los tests HTTP.
package app

import (
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/application/reports"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/docstore"
)

// Options adaptadores de infraestructura. Numbers nil usa numbering.LastRecord sobre Store.
type Options struct {
	Store      repository.DocumentStore
	Identities repository.IdentityProvider
	Numbers    numbering.Generator
	JWT        auth.JWTConfig
	Now        func() time.Time
}

// Container casos de uso listos para el router.
type Container struct {
	Guard *authz.Guard
	Audit *audit.Logger

	Users     *usecase.UserUseCase
	Clients   *usecase.ClientUseCase
	Leads     *usecase.LeadUseCase
	Jobs      *usecase.JobUseCase
	Products  *usecase.ProductUseCase
	Proposals *usecase.ProposalUseCase
	Settings  *usecase.SettingsUseCase
	Activity  *usecase.ActivityUseCase
	Auth      *auth.AuthUseCase
	Summary   *reports.SummaryUseCase
}

// New construye el contenedor.
func New(opts Options) *Container {
	var collOpts []docstore.Option
	if opts.Now != nil {
		collOpts = append(collOpts, docstore.WithClock(opts.Now))
	}
	numbers := opts.Numbers
	if numbers == nil {
		numbers = numbering.NewLastRecord(opts.Store)
	}

	users := docstore.NewCollection[entity.User](opts.Store, entity.CollectionUsers, collOpts...)
	clients := docstore.NewCollection[entity.Client](opts.Store, entity.CollectionClients, collOpts...)
	leads := docstore.NewCollection[entity.Lead](opts.Store, entity.CollectionLeads, collOpts...)
	jobs := docstore.NewCollection[entity.Job](opts.Store, entity.CollectionJobs, collOpts...)
	products := docstore.NewCollection[entity.Product](opts.Store, entity.CollectionProducts, collOpts...)
	proposals := docstore.NewCollection[entity.Proposal](opts.Store, entity.CollectionProposals, collOpts...)
	settings := docstore.NewCollection[entity.CompanySettings](opts.Store, entity.CollectionCompanySettings, collOpts...)
	logs := docstore.NewCollection[entity.ActivityLog](opts.Store, entity.CollectionActivityLogs, collOpts...)

	guard := authz.NewGuard(opts.Identities)
	auditLogger := audit.NewLogger(logs)
	validator := validation.New()
	if opts.Now != nil {
		validator = validation.NewWithClock(opts.Now)
	}
	deps := usecase.Deps{Guard: guard, Audit: auditLogger, Validator: validator, Now: opts.Now}

	c := &Container{
		Guard:     guard,
		Audit:     auditLogger,
		Users:     usecase.NewUserUseCase(users, opts.Identities, deps),
		Clients:   usecase.NewClientUseCase(clients, deps),
		Leads:     usecase.NewLeadUseCase(leads, clients, deps),
		Jobs:      usecase.NewJobUseCase(jobs, clients, numbers, deps),
		Products:  usecase.NewProductUseCase(products, numbers, deps),
		Proposals: usecase.NewProposalUseCase(proposals, clients, settings, numbers, deps),
		Settings:  usecase.NewSettingsUseCase(settings, deps),
		Activity:  usecase.NewActivityUseCase(deps),
	}
	c.Auth = auth.NewAuthUseCase(c.Users, users, opts.Identities, guard, opts.JWT)
	c.Summary = reports.NewSummaryUseCase(c.Clients, c.Leads, c.Jobs, c.Products, auditLogger, guard, opts.Now)
	return c
}
