package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
)

// ClientHandler maneja las peticiones HTTP para clientes (protegido).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  entity.Client
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
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
// @Summary      Obtener cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  entity.Client
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Parche"
// @Success      200   {object}  entity.Client
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddTags godoc
// @Summary      Agregar etiquetas
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del cliente"
// @Param        body  body  dto.TagsRequest  true  "tags"
// @Success      200   {object}  entity.Client
// @Router       /api/clients/{id}/tags [post]
func (h *ClientHandler) AddTags(c *fiber.Ctx) error {
	var in dto.TagsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddTags(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveTags godoc
// @Summary      Quitar etiquetas
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del cliente"
// @Param        body  body  dto.TagsRequest  true  "tags"
// @Success      200   {object}  entity.Client
// @Router       /api/clients/{id}/tags [delete]
func (h *ClientHandler) RemoveTags(c *fiber.Ctx) error {
	var in dto.TagsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RemoveTags(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Contact godoc
// @Summary      Registrar contacto con el cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID del cliente"
// @Param        body  body  dto.ContactRequest  false  "Próximo seguimiento"
// @Success      200   {object}  entity.Client
// @Router       /api/clients/{id}/contact [post]
func (h *ClientHandler) Contact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.UpdateLastContact(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        cursor  query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.Client]
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), c.Query("status"), pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        term              query  string  false  "Nombre, email, teléfono o empresa"
// @Param        status            query  string  false  "Estado"
// @Param        source            query  string  false  "Origen"
// @Param        assignedSalesRep  query  string  false  "Vendedor"
// @Param        tags              query  string  false  "Etiquetas separadas por coma"
// @Param        minRevenue        query  string  false  "Ingreso mínimo"
// @Param        maxRevenue        query  string  false  "Ingreso máximo"
// @Success      200  {array}  entity.Client
// @Router       /api/clients/search [get]
func (h *ClientHandler) Search(c *fiber.Ctx) error {
	f := dto.ClientSearchRequest{
		Term:             c.Query("term"),
		Status:           c.Query("status"),
		Source:           c.Query("source"),
		AssignedSalesRep: c.Query("assignedSalesRep"),
		Tags:             queryList(c, "tags"),
	}
	var err error
	if f.MinRevenue, err = queryDecimal(c, "minRevenue"); err != nil {
		return writeError(c, err)
	}
	if f.MaxRevenue, err = queryDecimal(c, "maxRevenue"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Search(c.UserContext(), GetPrincipal(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FollowUps godoc
// @Summary      Clientes con seguimiento vencido
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Client
// @Router       /api/clients/follow-ups [get]
func (h *ClientHandler) FollowUps(c *fiber.Ctx) error {
	out, err := h.uc.FollowUps(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClientStats
// @Router       /api/clients/stats [get]
func (h *ClientHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad del cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del cliente"
// @Param        limit  query  int     false  "Máximo de entradas"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/clients/{id}/activity [get]
func (h *ClientHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.UserContext(), GetPrincipal(c), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
