package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda de los productos que no indican otra.
const DefaultCurrency = "USD"

// ProductUseCase catálogo de equipos y su stock. Solo owner y admin lo modifican; cualquier rol lo consulta.
// El stock se modifica únicamente con UpdateStock.
type ProductUseCase struct {
	products repository.Repository[entity.Product]
	numbers  numbering.Generator
	Deps
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.Repository[entity.Product], numbers numbering.Generator, deps Deps) *ProductUseCase {
	return &ProductUseCase{products: products, numbers: numbers, Deps: deps}
}

// Create da de alta el producto con SKU CAT-YY-NNNN, activo y con stock mínimo 10 por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := uc.Guard.AuthorizeProductMutation(caller); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	sku, err := uc.numbers.Next(ctx, numbering.ProductSKU(in.Category, uc.now()))
	if err != nil {
		return nil, fmt.Errorf("generar SKU: %w", err)
	}
	product := &entity.Product{
		Base:         entity.Base{ID: uuid.New().String()},
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		SKU:          sku,
		Specifications: entity.Specifications{
			Power:      in.Specifications.Power,
			Voltage:    in.Specifications.Voltage,
			Current:    in.Specifications.Current,
			Efficiency: in.Specifications.Efficiency,
			Warranty:   in.Specifications.Warranty,
		},
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		Currency:      in.Currency,
		StockQuantity: in.StockQuantity,
		InStock:       in.StockQuantity > 0,
		MinimumStock:  entity.DefaultMinimumStock,
		Supplier:      entity.Supplier(in.Supplier),
		IsActive:      true,
	}
	if in.MinimumStock != nil {
		product.MinimumStock = *in.MinimumStock
	}
	if product.Currency == "" {
		product.Currency = DefaultCurrency
	}
	id, err := uc.products.Create(ctx, product, caller.ID)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceProduct, id)
	meta["productSku"] = sku
	meta["productCategory"] = product.Category
	meta["productPrice"] = product.SellingPrice.String()
	_, err = uc.Audit.Log(ctx, entity.LogOther, caller.ID, fmt.Sprintf("Producto creado: %s (%s)", product.Name, sku), meta)
	return product, logged("product.create", id, err)
}

// Get devuelve el producto.
func (uc *ProductUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.Product, error) {
	if err := uc.Guard.AuthorizeProductView(caller); err != nil {
		return nil, err
	}
	return uc.load(ctx, id)
}

// Update aplica el parche y registra los cambios.
func (uc *ProductUseCase) Update(ctx context.Context, caller entity.Principal, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeProductMutation(caller); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	changes, err := uc.patch(ctx, caller, product, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return product, nil
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogOther, caller.ID,
		fmt.Sprintf("Producto actualizado: %s (%s)", product.Name, product.SKU), changes, audit.Target(entity.ResourceProduct, id))
	return updated, logged("product.update", id, err)
}

// UpdateStock suma, resta (sin bajar de cero) o fija el stock. Cuando el stock cruza el mínimo
// hacia abajo se registra una alerta a nombre de system; mientras siga bajo el mínimo no se repite.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, caller entity.Principal, id string, in dto.StockUpdateRequest) (*entity.Product, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeProductMutation(caller); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	oldQty := product.StockQuantity
	newQty := nextStock(oldQty, in.Quantity, in.Operation)
	if err := uc.products.Update(ctx, id, repository.Document{"stockQuantity": newQty, "inStock": newQty > 0}, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := audit.Target(entity.ResourceProduct, id)
	meta["oldQuantity"] = oldQty
	meta["newQuantity"] = newQty
	meta["operation"] = in.Operation
	meta["quantityChanged"] = in.Quantity
	desc := fmt.Sprintf("Stock de %s: %d -> %d (%s %d)", product.Name, oldQty, newQty, in.Operation, in.Quantity)
	if in.Reason != "" {
		meta["reason"] = in.Reason
		desc += " - " + in.Reason
	}
	if _, err := uc.Audit.Log(ctx, entity.LogStockUpdated, caller.ID, desc, meta); err != nil {
		return updated, logged("product.stock", id, err)
	}
	if crossedMinimum(oldQty, newQty, product.MinimumStock) {
		alert := audit.Target(entity.ResourceProduct, id)
		alert["currentStock"] = newQty
		alert["threshold"] = product.MinimumStock
		_, err = uc.Audit.Log(ctx, entity.LogOther, entity.SystemActor,
			fmt.Sprintf("Alerta de stock bajo: %s (%s) - quedan %d", product.Name, product.SKU, newQty), alert)
	}
	return updated, logged("product.stock", id, err)
}

// nextStock aplica la operación; subtract y set nunca dejan stock negativo.
func nextStock(current, qty int, op string) int {
	var next int
	switch op {
	case dto.StockAdd:
		next = current + qty
	case dto.StockSubtract:
		next = current - qty
	default:
		next = qty
	}
	if next < 0 {
		return 0
	}
	return next
}

// crossedMinimum alerta por flanco: antes sobre el mínimo, ahora en o bajo él.
func crossedMinimum(oldQty, newQty, minimum int) bool {
	return oldQty > minimum && newQty <= minimum
}

// ToggleStatus activa o desactiva el producto. Si ya está en ese estado no escribe ni registra.
func (uc *ProductUseCase) ToggleStatus(ctx context.Context, caller entity.Principal, id string, active bool) (*entity.Product, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeProductMutation(caller); err != nil {
		return nil, err
	}
	if product.IsActive == active {
		return product, nil
	}
	if err := uc.products.Update(ctx, id, repository.Document{"isActive": active}, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	action, verb := "deactivated", "desactivado"
	if active {
		action, verb = "activated", "activado"
	}
	meta := audit.Target(entity.ResourceProduct, id)
	meta["statusChange"] = action
	_, err = uc.Audit.Log(ctx, entity.LogOther, caller.ID, fmt.Sprintf("Producto %s: %s (%s)", verb, product.Name, product.SKU), meta)
	return updated, logged("product.toggle", id, err)
}

// List página del catálogo; por defecto solo activos.
func (uc *ProductUseCase) List(ctx context.Context, caller entity.Principal, category string, includeInactive bool, req dto.PageRequest) (*dto.ListResponse[entity.Product], error) {
	if err := uc.Guard.AuthorizeProductView(caller); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if category != "" {
		q = q.Where("category", repository.OpEqual, category)
	}
	if !includeInactive {
		q = q.Where("isActive", repository.OpEqual, true)
	}
	p, err := uc.products.QueryPaginated(ctx, q.Order("name", repository.Asc), req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, nil), nil
}

// LowStock productos activos en o bajo su stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context, caller entity.Principal) ([]*entity.Product, error) {
	if err := uc.Guard.AuthorizeProductView(caller); err != nil {
		return nil, err
	}
	products, err := uc.products.Query(ctx, repository.NewQuery().
		Where("isActive", repository.OpEqual, true).
		Order("stockQuantity", repository.Asc))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search filtra por término (nombre, descripción, fabricante, modelo, SKU), categoría, disponibilidad y precio.
func (uc *ProductUseCase) Search(ctx context.Context, caller entity.Principal, f dto.ProductSearchRequest) ([]*entity.Product, error) {
	if err := uc.Guard.AuthorizeProductView(caller); err != nil {
		return nil, err
	}
	q := repository.NewQuery()
	if f.Category != "" {
		q = q.Where("category", repository.OpEqual, f.Category)
	}
	if !f.IncludeAll {
		q = q.Where("isActive", repository.OpEqual, true)
	}
	if f.MinPrice != nil {
		q = q.Where("sellingPrice", repository.OpGreaterEqual, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("sellingPrice", repository.OpLessEqual, *f.MaxPrice)
	}
	products, err := uc.products.Query(ctx, q.Order("name", repository.Asc))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if !matchesTerm(f.Term, p.Name, p.Description, p.Manufacturer, p.Model, p.SKU) {
			continue
		}
		if f.Manufacturer != "" && foldText(p.Manufacturer) != foldText(f.Manufacturer) {
			continue
		}
		if f.InStock != nil && (p.StockQuantity > 0) != *f.InStock {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Stats conteos por estado y categoría, stock bajo (sin contar agotados), agotados y valor del stock.
func (uc *ProductUseCase) Stats(ctx context.Context, caller entity.Principal) (*dto.ProductStats, error) {
	if err := uc.Guard.AuthorizeProductView(caller); err != nil {
		return nil, err
	}
	products, err := uc.products.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStats{
		Total:      len(products),
		ByCategory: make(map[string]int),
		TotalValue: decimal.Zero,
	}
	prices := decimal.Zero
	for _, p := range products {
		if p.IsActive {
			out.Active++
		} else {
			out.Inactive++
		}
		if p.IsDiscontinued {
			out.Discontinued++
		}
		out.ByCategory[p.Category]++
		switch {
		case p.StockQuantity == 0:
			out.OutOfStock++
		case p.IsLowStock():
			out.LowStock++
		}
		out.TotalValue = out.TotalValue.Add(p.StockValue())
		prices = prices.Add(p.SellingPrice)
	}
	out.AveragePrice = average(prices, len(products))
	return out, nil
}

// Valuation valor del inventario a costo y a precio de venta, por categoría.
func (uc *ProductUseCase) Valuation(ctx context.Context, caller entity.Principal) (*dto.InventoryValuation, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	products, err := uc.products.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryValuation{
		TotalCostValue:   decimal.Zero,
		TotalRetailValue: decimal.Zero,
		LowStockValue:    decimal.Zero,
		ByCategory:       []dto.CategoryValuation{},
	}
	byCat := make(map[string]*dto.CategoryValuation)
	for _, p := range products {
		units := decimal.NewFromInt(int64(p.StockQuantity))
		cost := p.CostPrice.Mul(units)
		retail := p.StockValue()
		out.TotalCostValue = out.TotalCostValue.Add(cost)
		out.TotalRetailValue = out.TotalRetailValue.Add(retail)
		if p.IsLowStock() {
			out.LowStockValue = out.LowStockValue.Add(retail)
		}
		cv, ok := byCat[p.Category]
		if !ok {
			cv = &dto.CategoryValuation{Category: p.Category, CostValue: decimal.Zero, RetailValue: decimal.Zero}
			byCat[p.Category] = cv
		}
		cv.Units += p.StockQuantity
		cv.CostValue = cv.CostValue.Add(cost)
		cv.RetailValue = cv.RetailValue.Add(retail)
	}
	out.PotentialProfit = out.TotalRetailValue.Sub(out.TotalCostValue)
	for _, cat := range sortedKeys(byCat) {
		out.ByCategory = append(out.ByCategory, *byCat[cat])
	}
	return out, nil
}

// StockReport resumen de stock con productos agotados y bajo mínimo.
func (uc *ProductUseCase) StockReport(ctx context.Context, caller entity.Principal) (*dto.StockReport, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	products, err := uc.products.Query(ctx, repository.NewQuery().Order("name", repository.Asc))
	if err != nil {
		return nil, err
	}
	out := &dto.StockReport{
		TotalProducts:      len(products),
		TotalValue:         decimal.Zero,
		Categories:         []dto.CategoryStock{},
		LowStockProducts:   []*entity.Product{},
		OutOfStockProducts: []*entity.Product{},
	}
	byCat := make(map[string]*dto.CategoryStock)
	for _, p := range products {
		value := p.StockValue()
		out.TotalValue = out.TotalValue.Add(value)
		cs, ok := byCat[p.Category]
		if !ok {
			cs = &dto.CategoryStock{Category: p.Category, TotalValue: decimal.Zero}
			byCat[p.Category] = cs
		}
		cs.Products++
		cs.TotalQuantity += p.StockQuantity
		cs.TotalValue = cs.TotalValue.Add(value)
		switch {
		case p.StockQuantity == 0:
			out.OutOfStockProducts = append(out.OutOfStockProducts, p)
		case p.IsLowStock():
			out.LowStockProducts = append(out.LowStockProducts, p)
			cs.LowStockItems++
		}
	}
	out.LowStockItems = len(out.LowStockProducts)
	out.OutOfStockItems = len(out.OutOfStockProducts)
	for _, cat := range sortedKeys(byCat) {
		out.Categories = append(out.Categories, *byCat[cat])
	}
	return out, nil
}

// BulkUpdate aplica varios parches. Los fallos se informan por producto sin cortar el lote,
// y se registra una única entrada con el resumen.
func (uc *ProductUseCase) BulkUpdate(ctx context.Context, caller entity.Principal, items []dto.BulkProductUpdate) (*dto.BulkUpdateResult, error) {
	if err := uc.Guard.AuthorizeProductMutation(caller); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NewError(domain.ErrInvalidArgument, "no hay productos para actualizar")
	}
	out := &dto.BulkUpdateResult{Updated: []string{}, Failed: map[string]string{}}
	for _, item := range items {
		if err := uc.bulkItem(ctx, caller, item); err != nil {
			out.Failed[item.ID] = domain.MessageOf(err)
			continue
		}
		out.Updated = append(out.Updated, item.ID)
	}
	meta := map[string]any{
		"updatedCount": len(out.Updated),
		"failedCount":  len(out.Failed),
		"productIds":   out.Updated,
	}
	_, err := uc.Audit.Log(ctx, entity.LogOther, caller.ID,
		fmt.Sprintf("Actualización masiva de productos: %d actualizados, %d con error", len(out.Updated), len(out.Failed)), meta)
	return out, logged("product.bulk_update", "", err)
}

func (uc *ProductUseCase) bulkItem(ctx context.Context, caller entity.Principal, item dto.BulkProductUpdate) error {
	product, err := uc.load(ctx, item.ID)
	if err != nil {
		return err
	}
	if err := uc.Validator.Struct(item.Patch); err != nil {
		return err
	}
	_, err = uc.patch(ctx, caller, product, item.Patch)
	return err
}

// Activity historial del producto.
func (uc *ProductUseCase) Activity(ctx context.Context, caller entity.Principal, id string, limit int) ([]*entity.ActivityLog, error) {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return uc.Audit.ByResource(ctx, id, entity.ResourceProduct, limit)
}

// patch persiste el parche si cambia algo y devuelve el diff.
func (uc *ProductUseCase) patch(ctx context.Context, caller entity.Principal, product *entity.Product, in dto.UpdateProductRequest) (audit.ChangeDiff, error) {
	changes, err := audit.Diff(product, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return changes, nil
	}
	if err := uc.products.Update(ctx, product.ID, in, caller.ID); err != nil {
		return nil, err
	}
	return changes, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFound("producto")
	}
	return product, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
