package dto

import (
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SpecificationsInput datos técnicos del equipo.
type SpecificationsInput struct {
	Power      *float64 `json:"power,omitempty" validate:"omitempty,gt=0"`
	Voltage    *float64 `json:"voltage,omitempty" validate:"omitempty,gt=0"`
	Current    *float64 `json:"current,omitempty" validate:"omitempty,gte=0"`
	Efficiency *float64 `json:"efficiency,omitempty" validate:"omitempty,gte=0,lte=100"`
	Warranty   *int     `json:"warranty,omitempty" validate:"omitempty,gte=0"`
}

// SupplierInput proveedor del producto.
type SupplierInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
}

// CreateProductRequest alta de producto. El SKU lo asigna el sistema a partir de la categoría.
type CreateProductRequest struct {
	Name           string              `json:"name" validate:"trimmin=2,max=200"`
	Description    string              `json:"description"`
	Category       string              `json:"category" validate:"oneof=panel inverter battery mounting electrical monitoring other"`
	Manufacturer   string              `json:"manufacturer"`
	Model          string              `json:"model"`
	Specifications SpecificationsInput `json:"specifications"`
	CostPrice      decimal.Decimal     `json:"costPrice" validate:"gte=0"`
	SellingPrice   decimal.Decimal     `json:"sellingPrice" validate:"gte=0"`
	Currency       string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	StockQuantity  int                 `json:"stockQuantity" validate:"gte=0"`
	MinimumStock   *int                `json:"minimumStock,omitempty" validate:"omitempty,gte=0"`
	Supplier       SupplierInput       `json:"supplier"`
}

// UpdateProductRequest parche de producto (sin stock: se maneja con UpdateStock).
type UpdateProductRequest struct {
	Name           *string              `json:"name,omitempty" validate:"omitempty,trimmin=2,max=200"`
	Description    *string              `json:"description,omitempty"`
	Manufacturer   *string              `json:"manufacturer,omitempty"`
	Model          *string              `json:"model,omitempty"`
	Specifications *SpecificationsInput `json:"specifications,omitempty"`
	CostPrice      *decimal.Decimal     `json:"costPrice,omitempty" validate:"omitempty,gte=0"`
	SellingPrice   *decimal.Decimal     `json:"sellingPrice,omitempty" validate:"omitempty,gte=0"`
	Currency       *string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	MinimumStock   *int                 `json:"minimumStock,omitempty" validate:"omitempty,gte=0"`
	Supplier       *SupplierInput       `json:"supplier,omitempty"`
	IsDiscontinued *bool                `json:"isDiscontinued,omitempty"`
}

// Operaciones de stock.
const (
	StockAdd      = "add"
	StockSubtract = "subtract"
	StockSet      = "set"
)

// StockUpdateRequest movimiento de stock.
type StockUpdateRequest struct {
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Operation string `json:"operation" validate:"oneof=add subtract set"`
	Reason    string `json:"reason,omitempty"`
}

// BulkProductUpdate parche de un producto dentro de una actualización masiva.
type BulkProductUpdate struct {
	ID    string               `json:"id"`
	Patch UpdateProductRequest `json:"patch"`
}

// BulkUpdateRequest cuerpo de la actualización masiva.
type BulkUpdateRequest struct {
	Items []BulkProductUpdate `json:"items"`
}

// ProductStatusRequest activa o desactiva un producto.
type ProductStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// BulkUpdateResult resultado de una actualización masiva; cada fallo se informa por producto.
type BulkUpdateResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// ProductSearchRequest filtros de catálogo.
type ProductSearchRequest struct {
	Term         string           `query:"term"`
	Category     string           `query:"category"`
	Manufacturer string           `query:"manufacturer"`
	InStock      *bool            `query:"inStock"`
	MinPrice     *decimal.Decimal `query:"minPrice"`
	MaxPrice     *decimal.Decimal `query:"maxPrice"`
	IncludeAll   bool             `query:"includeInactive"`
}

// ProductStats estadísticas del catálogo. TotalValue es el stock valuado a precio de venta.
type ProductStats struct {
	Total        int             `json:"total"`
	Active       int             `json:"active"`
	Inactive     int             `json:"inactive"`
	Discontinued int             `json:"discontinued"`
	LowStock     int             `json:"lowStock"`
	OutOfStock   int             `json:"outOfStock"`
	ByCategory   map[string]int  `json:"byCategory"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// CategoryValuation valor de inventario de una categoría.
type CategoryValuation struct {
	Category    string          `json:"category"`
	Units       int             `json:"units"`
	CostValue   decimal.Decimal `json:"costValue"`
	RetailValue decimal.Decimal `json:"retailValue"`
}

// InventoryValuation valoración del inventario a costo y a precio de venta.
type InventoryValuation struct {
	TotalCostValue   decimal.Decimal     `json:"totalCostValue"`
	TotalRetailValue decimal.Decimal     `json:"totalRetailValue"`
	PotentialProfit  decimal.Decimal     `json:"potentialProfit"`
	LowStockValue    decimal.Decimal     `json:"lowStockValue"`
	ByCategory       []CategoryValuation `json:"byCategory"`
}

// CategoryStock resumen de stock de una categoría.
type CategoryStock struct {
	Category      string          `json:"category"`
	Products      int             `json:"products"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockItems int             `json:"lowStockItems"`
}

// StockReport reporte de stock: resumen, desglose por categoría y productos a reponer.
type StockReport struct {
	TotalProducts      int               `json:"totalProducts"`
	TotalValue         decimal.Decimal   `json:"totalValue"`
	LowStockItems      int               `json:"lowStockItems"`
	OutOfStockItems    int               `json:"outOfStockItems"`
	Categories         []CategoryStock   `json:"categories"`
	LowStockProducts   []*entity.Product `json:"lowStockProducts"`
	OutOfStockProducts []*entity.Product `json:"outOfStockProducts"`
}
