package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/pkg/jwt"
)

// Locals keys del contexto Fiber.
const (
	LocalUserID    = "user_id"
	LocalEmail     = "email"
	LocalRole      = "role"
	LocalPrincipal = "principal"
)

// RequestContext lleva IP y user agent al contexto de la petición para el registro de actividad.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(audit.WithRequest(c.UserContext(), c.IP(), c.Get(fiber.HeaderUserAgent)))
		return c.Next()
	}
}

// AuthMiddleware valida el Bearer Token JWT y deja user_id, email y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole deja pasar a quien tenga al menos el rol indicado según el claim del token.
// Un rol desconocido no alcanza ningún mínimo. Debe ir después de AuthMiddleware.
func RequireRole(min entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye un rol"})
		}
		if !entity.HasRole(role, min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequirePermission filtra por capacidad del rol del token. El caso de uso vuelve a autorizar
// con el rol vigente del proveedor de identidad.
func RequirePermission(p entity.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye un rol"})
		}
		if !entity.HasPermission(role, string(p)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
		}
		return c.Next()
	}
}

// ResolvePrincipal resuelve al llamador contra el proveedor de identidad: una cuenta desactivada
// después de emitir el token queda fuera de inmediato.
func ResolvePrincipal(guard *authz.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := guard.Resolve(c.UserContext(), GetUserID(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalPrincipal, principal)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) entity.Role {
	s, _ := c.Locals(LocalRole).(string)
	return entity.Role(s)
}

// GetPrincipal devuelve el principal resuelto por ResolvePrincipal.
func GetPrincipal(c *fiber.Ctx) entity.Principal {
	p, _ := c.Locals(LocalPrincipal).(entity.Principal)
	return p
}
