package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para el catálogo de productos (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto (el SKU lo asigna el sistema)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  entity.Product
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category         query  string  false  "Categoría"
// @Param        includeInactive  query  bool    false  "Incluir inactivos"
// @Param        limit            query  int     false  "Tamaño de página"
// @Param        cursor           query  string  false  "Cursor"
// @Success      200  {object}  dto.ListResponse[entity.Product]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), c.Query("category"), c.QueryBool("includeInactive"), pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Parche"
// @Success      200   {object}  entity.Product
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Ajustar stock (add | subtract | set)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockUpdateRequest  true  "quantity, operation, reason"
// @Success      200   {object}  entity.Product
// @Router       /api/products/{id}/stock [put]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.StockUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStock(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleStatus godoc
// @Summary      Activar o desactivar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.ProductStatusRequest  true  "isActive"
// @Success      200   {object}  entity.Product
// @Router       /api/products/{id}/status [put]
func (h *ProductHandler) ToggleStatus(c *fiber.Ctx) error {
	var in dto.ProductStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ToggleStatus(c.UserContext(), GetPrincipal(c), c.Params("id"), in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkUpdate godoc
// @Summary      Actualización masiva de productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkUpdateRequest  true  "items"
// @Success      200   {object}  dto.BulkUpdateResult
// @Router       /api/products/bulk [put]
func (h *ProductHandler) BulkUpdate(c *fiber.Ctx) error {
	var in dto.BulkUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkUpdate(c.UserContext(), GetPrincipal(c), in.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos activos en o bajo el stock mínimo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Product
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar en el catálogo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        term             query  string  false  "Nombre, SKU, modelo o fabricante"
// @Param        category         query  string  false  "Categoría"
// @Param        manufacturer     query  string  false  "Fabricante"
// @Param        inStock          query  bool    false  "Con stock"
// @Param        minPrice         query  string  false  "Precio mínimo"
// @Param        maxPrice         query  string  false  "Precio máximo"
// @Param        includeInactive  query  bool    false  "Incluir inactivos"
// @Success      200  {array}  entity.Product
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	f := dto.ProductSearchRequest{
		Term:         c.Query("term"),
		Category:     c.Query("category"),
		Manufacturer: c.Query("manufacturer"),
		IncludeAll:   c.QueryBool("includeInactive"),
	}
	var err error
	if f.InStock, err = queryBool(c, "inStock"); err != nil {
		return writeError(c, err)
	}
	if f.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		return writeError(c, err)
	}
	if f.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Search(c.UserContext(), GetPrincipal(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del catálogo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductStats
// @Router       /api/products/stats [get]
func (h *ProductHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valoración del inventario
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValuation
// @Router       /api/products/valuation [get]
func (h *ProductHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.Valuation(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockReport godoc
// @Summary      Reporte de stock por categoría
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReport
// @Router       /api/products/stock-report [get]
func (h *ProductHandler) StockReport(c *fiber.Ctx) error {
	out, err := h.uc.StockReport(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad del producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Máximo de entradas"
// @Success      200  {array}  entity.ActivityLog
// @Router       /api/products/{id}/activity [get]
func (h *ProductHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.UserContext(), GetPrincipal(c), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
