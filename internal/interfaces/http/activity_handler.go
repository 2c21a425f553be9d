package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/reports"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
)

// ActivityHandler historial de actividad y resumen del panel.
type ActivityHandler struct {
	activity *usecase.ActivityUseCase
	summary  *reports.SummaryUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(activity *usecase.ActivityUseCase, summary *reports.SummaryUseCase) *ActivityHandler {
	return &ActivityHandler{activity: activity, summary: summary}
}

// Recent godoc
// @Summary      Actividad reciente de todo el sistema
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas (50 por defecto)"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/activity [get]
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	out, err := h.activity.Recent(c.UserContext(), GetPrincipal(c), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByUser godoc
// @Summary      Actividad de un usuario ("me" para la propia)
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del usuario o me"
// @Param        limit  query  int     false  "Máximo de entradas"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/activity/users/{id} [get]
func (h *ActivityHandler) ByUser(c *fiber.Ctx) error {
	principal := GetPrincipal(c)
	userID := c.Params("id")
	if userID == "me" {
		userID = principal.ID
	}
	out, err := h.activity.ByUser(c.UserContext(), principal, userID, c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByResource godoc
// @Summary      Actividad sobre un recurso
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        type   path   string  true   "Tipo de recurso (client, job, product...)"
// @Param        id     path   string  true   "ID del recurso"
// @Param        limit  query  int     false  "Máximo de entradas"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/activity/resources/{type}/{id} [get]
func (h *ActivityHandler) ByResource(c *fiber.Ctx) error {
	out, err := h.activity.ByResource(c.UserContext(), GetPrincipal(c), c.Params("type"), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen del mes para el panel principal
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ActivityHandler) Summary(c *fiber.Ctx) error {
	out, err := h.summary.GetSummary(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
