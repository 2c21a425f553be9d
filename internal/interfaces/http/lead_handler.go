package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
)

// LeadHandler embudo de prospectos (protegido).
type LeadHandler struct {
	uc *usecase.LeadUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeadRequest  true  "Datos del lead"
// @Success      201   {object}  entity.Lead
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
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
// @Summary      Obtener lead
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lead"
// @Success      200  {object}  entity.Lead
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del lead"
// @Param        body  body  dto.LeadStatusRequest  true  "status, notes"
// @Success      200   {object}  entity.Lead
// @Router       /api/leads/{id}/status [put]
func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.LeadStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir lead en cliente
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lead"
// @Success      201  {object}  dto.ConversionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	out, err := h.uc.ConvertToClient(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar leads por estado
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        cursor  query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.Lead]
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ByStatus(c.UserContext(), GetPrincipal(c), c.Query("status"), pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del embudo
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LeadStats
// @Router       /api/leads/stats [get]
func (h *LeadHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
