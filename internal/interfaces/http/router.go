package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/app"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	App       *app.Container
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(fapp *fiber.App, deps RouterDeps) {
	c := deps.App
	api := fapp.Group("/api", RequestContext())

	// Auth (público)
	authHandler := NewAuthHandler(c.Auth)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: JWT + identidad vigente
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ResolvePrincipal(c.Guard))

	// Usuarios y callables de roles
	userHandler := NewUserHandler(c.Users)
	users := protected.Group("/users")
	users.Get("/me/role", authHandler.GetUserRole)
	users.Post("/initialize", authHandler.InitializeUserRole)
	users.Get("/search", RequirePermission(entity.PermManageUsers), userHandler.Search)
	users.Get("/stats", RequirePermission(entity.PermViewReports), userHandler.Stats)
	users.Post("/", RequirePermission(entity.PermManageUsers), userHandler.Create)
	users.Get("/", RequirePermission(entity.PermManageUsers), userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Get("/:id/role", authHandler.GetUserRole)
	users.Post("/:id/role", authHandler.SetUserRole)
	users.Post("/:id/deactivate", authHandler.DeactivateUser)
	users.Post("/:id/reactivate", RequireRole(entity.RoleAdmin), userHandler.Reactivate)

	// Clientes
	clientHandler := NewClientHandler(c.Clients)
	clients := protected.Group("/clients")
	clients.Get("/search", clientHandler.Search)
	clients.Get("/follow-ups", clientHandler.FollowUps)
	clients.Get("/stats", clientHandler.Stats)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Post("/:id/tags", clientHandler.AddTags)
	clients.Delete("/:id/tags", clientHandler.RemoveTags)
	clients.Post("/:id/contact", clientHandler.Contact)
	clients.Get("/:id/activity", clientHandler.Activity)

	// Leads
	leadHandler := NewLeadHandler(c.Leads)
	leads := protected.Group("/leads")
	leads.Get("/stats", leadHandler.Stats)
	leads.Post("/", leadHandler.Create)
	leads.Get("/", leadHandler.List)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id/status", leadHandler.UpdateStatus)
	leads.Post("/:id/convert", leadHandler.Convert)

	// Trabajos
	jobHandler := NewJobHandler(c.Jobs)
	jobs := protected.Group("/jobs")
	jobs.Get("/search", jobHandler.Search)
	jobs.Get("/range", jobHandler.ByDateRange)
	jobs.Get("/stats", jobHandler.Stats)
	jobs.Get("/technicians/:id/workload", jobHandler.Workload)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Put("/:id", jobHandler.Update)
	jobs.Put("/:id/status", jobHandler.UpdateStatus)
	jobs.Put("/:id/technician", jobHandler.AssignTechnician)
	jobs.Put("/:id/schedule", jobHandler.Schedule)
	jobs.Post("/:id/field-work", jobHandler.AddFieldWork)
	jobs.Put("/:id/pricing", jobHandler.UpdatePricing)
	jobs.Post("/:id/feedback", jobHandler.RecordFeedback)
	jobs.Get("/:id/activity", jobHandler.Activity)

	// Productos
	productHandler := NewProductHandler(c.Products)
	products := protected.Group("/products")
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/stats", productHandler.Stats)
	products.Get("/valuation", RequirePermission(entity.PermViewReports), productHandler.Valuation)
	products.Get("/stock-report", RequirePermission(entity.PermViewReports), productHandler.StockReport)
	products.Put("/bulk", RequirePermission(entity.PermManageProducts), productHandler.BulkUpdate)
	products.Post("/", RequirePermission(entity.PermManageProducts), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequirePermission(entity.PermManageProducts), productHandler.Update)
	products.Put("/:id/stock", productHandler.UpdateStock)
	products.Put("/:id/status", RequirePermission(entity.PermManageProducts), productHandler.ToggleStatus)
	products.Get("/:id/activity", productHandler.Activity)

	// Propuestas
	proposalHandler := NewProposalHandler(c.Proposals)
	proposals := protected.Group("/proposals")
	proposals.Get("/expired", proposalHandler.Expired)
	proposals.Post("/", proposalHandler.Create)
	proposals.Get("/", proposalHandler.List)
	proposals.Get("/:id", proposalHandler.GetByID)
	proposals.Put("/:id", proposalHandler.Update)
	proposals.Put("/:id/status", proposalHandler.UpdateStatus)

	// Configuración de la empresa
	settingsHandler := NewSettingsHandler(c.Settings)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", RequirePermission(entity.PermManageCompanySettings), settingsHandler.Update)

	// Actividad y reportes
	activityHandler := NewActivityHandler(c.Activity, c.Summary)
	protected.Get("/activity", activityHandler.Recent)
	protected.Get("/activity/users/:id", activityHandler.ByUser)
	protected.Get("/activity/resources/:type/:id", activityHandler.ByResource)
	protected.Get("/reports/summary", RequirePermission(entity.PermViewReports), activityHandler.Summary)
}
