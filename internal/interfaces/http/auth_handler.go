package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
)

// AuthHandler login y callables de gestión de roles.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetUserRole godoc
// @Summary      Asignar rol a un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del usuario"
// @Param        body  body  dto.SetRoleRequest  true  "role"
// @Success      200   {object}  dto.ResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [post]
func (h *AuthHandler) SetUserRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetUserRole(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InitializeUserRole godoc
// @Summary      Inicializar perfil y rol de un usuario nuevo (guest por defecto)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitializeRoleRequest  true  "userId, email, initialRole"
// @Success      201   {object}  dto.ResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/initialize [post]
func (h *AuthHandler) InitializeUserRole(c *fiber.Ctx) error {
	var in dto.InitializeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.InitializeUserRole(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetUserRole godoc
// @Summary      Rol y permisos de un usuario ("me" para el propio)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario o me"
// @Success      200  {object}  dto.RoleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [get]
func (h *AuthHandler) GetUserRole(c *fiber.Ctx) error {
	callerID := GetUserID(c)
	userID := c.Params("id", "me")
	if userID == "me" {
		userID = callerID
	}
	out, err := h.uc.GetUserRole(c.UserContext(), callerID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateUser godoc
// @Summary      Desactivar un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del usuario"
// @Param        body  body  dto.DeactivateRequest  false  "reason"
// @Success      200   {object}  dto.ResultResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/deactivate [post]
func (h *AuthHandler) DeactivateUser(c *fiber.Ctx) error {
	var in dto.DeactivateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.DeactivateUser(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
