package entity

import (
	"github.com/shopspring/decimal"
)

// Categorías de producto.
const (
	CategoryPanel      = "panel"
	CategoryInverter   = "inverter"
	CategoryBattery    = "battery"
	CategoryMounting   = "mounting"
	CategoryElectrical = "electrical"
	CategoryMonitoring = "monitoring"
	CategoryOther      = "other"
)

// DefaultMinimumStock umbral de stock bajo cuando no se indica otro.
const DefaultMinimumStock = 10

// Product equipo solar del catálogo con su stock.
type Product struct {
	Base
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Manufacturer   string          `json:"manufacturer"`
	Model          string          `json:"model"`
	SKU            string          `json:"sku"` // CAT-YY-NNNN
	Specifications Specifications  `json:"specifications"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	Currency       string          `json:"currency"`
	InStock        bool            `json:"inStock"`
	StockQuantity  int             `json:"stockQuantity"`
	MinimumStock   int             `json:"minimumStock"`
	Supplier       Supplier        `json:"supplier"`
	IsActive       bool            `json:"isActive"`
	IsDiscontinued bool            `json:"isDiscontinued,omitempty"`
}

// Specifications datos técnicos del equipo.
type Specifications struct {
	Power      *float64 `json:"power,omitempty"`      // W
	Voltage    *float64 `json:"voltage,omitempty"`    // V
	Current    *float64 `json:"current,omitempty"`    // A
	Efficiency *float64 `json:"efficiency,omitempty"` // %
	Warranty   *int     `json:"warranty,omitempty"`   // años
}

// Supplier proveedor del producto.
type Supplier struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// StockValue valor del stock a precio de venta.
func (p *Product) StockValue() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinimumStock
}
