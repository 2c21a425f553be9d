package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/rs/zerolog/log"
)

var statusByKind = map[domain.Kind]int{
	domain.KindUnauthenticated:  fiber.StatusUnauthorized,
	domain.KindInvalidArgument:  fiber.StatusBadRequest,
	domain.KindPermissionDenied: fiber.StatusForbidden,
	domain.KindNotFound:         fiber.StatusNotFound,
	domain.KindValidation:       fiber.StatusUnprocessableEntity,
	domain.KindAlreadyExists:    fiber.StatusConflict,
	domain.KindInvalidRole:      fiber.StatusBadRequest,
	domain.KindInvalidLogType:   fiber.StatusBadRequest,
	domain.KindInternal:         fiber.StatusInternalServerError,
}

// StatusOf código HTTP para un error de dominio.
func StatusOf(err error) int {
	if status, ok := statusByKind[domain.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// writeError traduce el error a status + dto.ErrorResponse. Los internos se registran con detalle
// y se responden con un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(StatusOf(err)).JSON(dto.ErrorResponse{
		Code:    strings.ToUpper(string(kind)),
		Message: domain.MessageOf(err),
		Details: domain.DetailsOf(err),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador de errores de Fiber: rutas inexistentes, métodos no permitidos
// y cualquier error devuelto sin pasar por writeError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
