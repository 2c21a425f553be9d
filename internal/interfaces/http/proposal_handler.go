package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
)

// ProposalHandler propuestas comerciales (protegido).
type ProposalHandler struct {
	uc *usecase.ProposalUseCase
}

// NewProposalHandler construye el handler.
func NewProposalHandler(uc *usecase.ProposalUseCase) *ProposalHandler {
	return &ProposalHandler{uc: uc}
}

// Create godoc
// @Summary      Crear propuesta
// @Tags         proposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProposalRequest  true  "Datos de la propuesta"
// @Success      201   {object}  entity.Proposal
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/proposals [post]
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProposalRequest
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
// @Summary      Obtener propuesta
// @Tags         proposals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la propuesta"
// @Success      200  {object}  entity.Proposal
// @Router       /api/proposals/{id} [get]
func (h *ProposalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar propuesta (nueva versión si cambian precios o líneas)
// @Tags         proposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la propuesta"
// @Param        body  body  dto.UpdateProposalRequest  true  "Parche"
// @Success      200   {object}  entity.Proposal
// @Router       /api/proposals/{id} [put]
func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProposalRequest
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
// @Summary      Cambiar estado de la propuesta
// @Tags         proposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la propuesta"
// @Param        body  body  dto.ProposalStatusRequest  true  "status, rejectionReason"
// @Success      200   {object}  entity.Proposal
// @Router       /api/proposals/{id}/status [put]
func (h *ProposalHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.ProposalStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar propuestas (por estado o por cliente)
// @Tags         proposals
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "Estado"
// @Param        clientId  query  string  false  "Cliente (devuelve todas sus propuestas)"
// @Param        limit     query  int     false  "Tamaño de página"
// @Param        cursor    query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.Proposal]
// @Router       /api/proposals [get]
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	if clientID := c.Query("clientId"); clientID != "" {
		out, err := h.uc.ByClient(c.UserContext(), GetPrincipal(c), clientID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), c.Query("status"), pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Expired godoc
// @Summary      Propuestas enviadas o vistas con vigencia vencida
// @Tags         proposals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Proposal
// @Router       /api/proposals/expired [get]
func (h *ProposalHandler) Expired(c *fiber.Ctx) error {
	out, err := h.uc.Expired(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
