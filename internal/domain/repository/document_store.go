package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// Document es un documento JSON ya decodificado (claves camelCase, valores JSON).
type Document map[string]any

// Operator operador de comparación de un filtro.
type Operator string

const (
	OpEqual        Operator = "=="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Valid indica si el operador está soportado.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// Direction sentido de ordenamiento.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter predicado (campo, operador, valor). El campo admite rutas con punto ("address.city").
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Order cláusula de ordenamiento.
type Order struct {
	Field     string
	Direction Direction
}

// Query consulta conjuntiva sobre una colección.
type Query struct {
	Filters []Filter
	OrderBy []Order
	Limit   int // 0 = sin límite
}

// NewQuery crea una consulta vacía.
func NewQuery() Query { return Query{} }

// Where agrega un filtro.
func (q Query) Where(field string, op Operator, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Order agrega un ordenamiento.
func (q Query) Order(field string, dir Direction) Query {
	q.OrderBy = append(append([]Order(nil), q.OrderBy...), Order{Field: field, Direction: dir})
	return q
}

// Take fija el límite de resultados.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// DocumentPage página de resultados con cursor opaco para la siguiente.
type DocumentPage struct {
	Items      []Document
	NextCursor string
	HasMore    bool
}

// DocumentStore puerto del almacén de documentos (implementado en infrastructure).
// Get devuelve nil, nil si el documento no existe; Update y Delete devuelven domain.ErrNotFound.
type DocumentStore interface {
	Create(ctx context.Context, collection string, doc Document) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, fields Document) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	QueryPaginated(ctx context.Context, collection string, q Query, pageSize int, cursor string) (*DocumentPage, error)
}

// ToDocument normaliza cualquier valor serializable a Document pasando por JSON,
// de modo que fechas, decimales y structs anidados quedan como tipos JSON básicos.
func ToDocument(v any) (Document, error) {
	switch d := v.(type) {
	case nil:
		return Document{}, nil
	case Document:
		v = map[string]any(d)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("el valor no es un objeto JSON: %w", err)
	}
	return doc, nil
}

// FromDocument decodifica un Document sobre out (puntero a struct).
func FromDocument(doc Document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializar documento: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodificar documento: %w", err)
	}
	return nil
}

// NormalizeValue reduce el valor de un filtro a su tipo base (string, bool, int64, float64),
// conservando time.Time y los tipos con MarshalJSON propio como decimal.Decimal.
// Así un entity.Role o un tipo enumerado se compara como string en cualquier adaptador.
func NormalizeValue(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.(json.Marshaler); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return NormalizeValue(rv.Elem().Interface())
	}
	return v
}
