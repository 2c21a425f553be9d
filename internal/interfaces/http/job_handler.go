package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
	"github.com/jhoicas/heliosuite-api/internal/domain"
)

// JobHandler trabajos de instalación (protegido).
type JobHandler struct {
	uc *usecase.JobUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(uc *usecase.JobUseCase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Create godoc
// @Summary      Crear trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobRequest  true  "Datos del trabajo"
// @Success      201   {object}  entity.Job
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener trabajo
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  entity.Job
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del trabajo"
// @Param        body  body  dto.UpdateJobRequest  true  "Parche"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del trabajo"
// @Param        body  body  dto.JobStatusRequest  true  "status, notes"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/status [put]
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.JobStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignTechnician godoc
// @Summary      Asignar técnico
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del trabajo"
// @Param        body  body  dto.AssignTechnicianRequest  true  "technicianId"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/technician [put]
func (h *JobHandler) AssignTechnician(c *fiber.Ctx) error {
	var in dto.AssignTechnicianRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AssignTechnician(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Schedule godoc
// @Summary      Programar trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del trabajo"
// @Param        body  body  dto.ScheduleJobRequest  true  "scheduledDate, estimatedDuration"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/schedule [put]
func (h *JobHandler) Schedule(c *fiber.Ctx) error {
	var in dto.ScheduleJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Schedule(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddFieldWork godoc
// @Summary      Registrar trabajo de campo (notas y fotos)
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del trabajo"
// @Param        body  body  dto.FieldWorkRequest  true  "fieldNotes, photos"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/field-work [post]
func (h *JobHandler) AddFieldWork(c *fiber.Ctx) error {
	var in dto.FieldWorkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddFieldWork(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePricing godoc
// @Summary      Actualizar costos y precios
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del trabajo"
// @Param        body  body  dto.JobPricingRequest  true  "Montos"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/pricing [put]
func (h *JobHandler) UpdatePricing(c *fiber.Ctx) error {
	var in dto.JobPricingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePricing(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordFeedback godoc
// @Summary      Registrar calificación del cliente
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del trabajo"
// @Param        body  body  dto.FeedbackRequest  true  "rating 1-5"
// @Success      200   {object}  entity.Job
// @Router       /api/jobs/{id}/feedback [post]
func (h *JobHandler) RecordFeedback(c *fiber.Ctx) error {
	var in dto.FeedbackRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordFeedback(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Workload godoc
// @Summary      Carga de trabajo de un técnico
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del técnico"
// @Success      200  {object}  dto.TechnicianWorkload
// @Router       /api/jobs/technicians/{id}/workload [get]
func (h *JobHandler) Workload(c *fiber.Ctx) error {
	out, err := h.uc.TechnicianWorkload(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByDateRange godoc
// @Summary      Trabajos en un rango de fechas
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        field  query  string  false  "scheduledDate | actualStartDate | actualEndDate"
// @Param        from   query  string  true   "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to     query  string  true   "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Success      200  {array}  entity.Job
// @Router       /api/jobs/range [get]
func (h *JobHandler) ByDateRange(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	if from == nil || to == nil {
		return writeError(c, domain.NewError(domain.ErrInvalidArgument, "from y to son obligatorios"))
	}
	out, err := h.uc.ByDateRange(c.UserContext(), GetPrincipal(c), c.Query("field"), *from, *to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar trabajos
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        cursor  query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.Job]
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), c.Query("status"), pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar trabajos
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        term                query  string  false  "Título, descripción o número"
// @Param        status              query  string  false  "Estado"
// @Param        priority            query  string  false  "Prioridad"
// @Param        clientId            query  string  false  "Cliente"
// @Param        assignedTechnician  query  string  false  "Técnico"
// @Param        assignedSalesRep    query  string  false  "Vendedor"
// @Param        from                query  string  false  "Programado desde"
// @Param        to                  query  string  false  "Programado hasta"
// @Param        minValue            query  string  false  "Valor mínimo"
// @Param        maxValue            query  string  false  "Valor máximo"
// @Success      200  {array}  entity.Job
// @Router       /api/jobs/search [get]
func (h *JobHandler) Search(c *fiber.Ctx) error {
	f := dto.JobSearchRequest{
		Term:               c.Query("term"),
		Status:             c.Query("status"),
		Priority:           c.Query("priority"),
		ClientID:           c.Query("clientId"),
		AssignedTechnician: c.Query("assignedTechnician"),
		AssignedSalesRep:   c.Query("assignedSalesRep"),
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, err)
	}
	if f.MinValue, err = queryDecimal(c, "minValue"); err != nil {
		return writeError(c, err)
	}
	if f.MaxValue, err = queryDecimal(c, "maxValue"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Search(c.UserContext(), GetPrincipal(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de trabajos
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.JobStats
// @Router       /api/jobs/stats [get]
func (h *JobHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad del trabajo
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del trabajo"
// @Param        limit  query  int     false  "Máximo de entradas"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/jobs/{id}/activity [get]
func (h *JobHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.UserContext(), GetPrincipal(c), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
