package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

// UserHandler perfiles de usuario (protegido).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario con su identidad
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  entity.User
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
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
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil y preferencias
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Parche"
// @Success      200   {object}  entity.User
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reactivate godoc
// @Summary      Reactivar usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.ResultResponse
// @Router       /api/users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	if err := h.uc.Reactivate(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ResultResponse{Success: true, Message: "Usuario reactivado correctamente"})
}

// List godoc
// @Summary      Listar usuarios (opcionalmente por rol)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        role    query  string  false  "Rol"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        cursor  query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.User]
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var role entity.Role
	if raw := c.Query("role"); raw != "" {
		r, err := entity.ParseRole(raw)
		if err != nil {
			return writeError(c, err)
		}
		role = r
	}
	out, err := h.uc.ListByRole(c.UserContext(), GetPrincipal(c), role, pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar usuarios activos por nombre o email
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        term  query  string  true  "Término"
// @Success      200  {array}  entity.User
// @Router       /api/users/search [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), GetPrincipal(c), c.Query("term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Totales de usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserStats
// @Router       /api/users/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
