// Package memory implementa los puertos de persistencia en memoria. Se usa como doble en
// los tests y como backend de desarrollo (STORE_BACKEND=memory).
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type record struct {
	seq  int64
	data repository.Document
}

// DocumentStore almacén de documentos en memoria. Guarda copias normalizadas a JSON,
// de modo que los valores se comparan igual que en el adaptador PostgreSQL.
type DocumentStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]*record
	failures    map[string]error
	writes      int
}

// NewDocumentStore crea un almacén vacío.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]*record),
		failures:    make(map[string]error),
	}
}

// FailWrites hace que toda escritura sobre la colección devuelva err (nil lo desactiva).
func (s *DocumentStore) FailWrites(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, collection)
		return
	}
	s.failures[collection] = err
}

// Writes cantidad de escrituras exitosas (create, update, delete) desde la creación.
func (s *DocumentStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Count cantidad de documentos en la colección.
func (s *DocumentStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Create inserta el documento; si no trae "id" se genera uno.
func (s *DocumentStore) Create(ctx context.Context, collection string, doc repository.Document) (string, error) {
	data, err := repository.ToDocument(doc)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[collection]; err != nil {
		return "", err
	}
	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	data["id"] = id
	coll := s.collection(collection)
	if _, ok := coll[id]; ok {
		return "", domain.NewError(domain.ErrAlreadyExists, fmt.Sprintf("%s/%s ya existe", collection, id))
	}
	s.seq++
	coll[id] = &record{seq: s.seq, data: data}
	s.writes++
	return id, nil
}

// Get devuelve una copia del documento o nil si no existe.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return repository.ToDocument(rec.data)
}

// Update fusiona los campos de primer nivel sobre el documento existente.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := repository.ToDocument(fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[collection]; err != nil {
		return err
	}
	rec, ok := s.collections[collection][id]
	if !ok {
		return domain.NewError(domain.ErrNotFound, fmt.Sprintf("%s/%s no existe", collection, id))
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		rec.data[k] = v
	}
	s.writes++
	return nil
}

// Delete elimina el documento.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[collection]; err != nil {
		return err
	}
	if _, ok := s.collections[collection][id]; !ok {
		return domain.NewError(domain.ErrNotFound, fmt.Sprintf("%s/%s no existe", collection, id))
	}
	delete(s.collections[collection], id)
	s.writes++
	return nil
}

// Query filtra, ordena y limita.
func (s *DocumentStore) Query(ctx context.Context, collection string, q repository.Query) ([]repository.Document, error) {
	recs, err := s.run(collection, q)
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}
	return copyRecords(recs)
}

// QueryPaginated el cursor es el desplazamiento dentro del resultado ordenado.
func (s *DocumentStore) QueryPaginated(ctx context.Context, collection string, q repository.Query, pageSize int, cursor string) (*repository.DocumentPage, error) {
	if pageSize <= 0 {
		return nil, domain.NewError(domain.ErrInvalidArgument, "pageSize debe ser mayor que 0")
	}
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}
	recs, err := s.run(collection, q)
	if err != nil {
		return nil, err
	}
	if offset > len(recs) {
		offset = len(recs)
	}
	recs = recs[offset:]
	page := &repository.DocumentPage{}
	if len(recs) > pageSize {
		recs = recs[:pageSize]
		page.HasMore = true
		page.NextCursor = strconv.Itoa(offset + pageSize)
	}
	page.Items, err = copyRecords(recs)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *DocumentStore) collection(name string) map[string]*record {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]*record)
		s.collections[name] = coll
	}
	return coll
}

func (s *DocumentStore) run(collection string, q repository.Query) ([]*record, error) {
	for _, f := range q.Filters {
		if !f.Op.Valid() {
			return nil, domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("operador no soportado: %q", f.Op))
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record
	for _, rec := range s.collections[collection] {
		if matches(rec.data, q.Filters) {
			out = append(out, rec)
		}
	}
	tieDesc := len(q.OrderBy) > 0 && q.OrderBy[0].Direction == repository.Desc
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.OrderBy {
			c := compareStored(lookup(out[i].data, o.Field), lookup(out[j].data, o.Field))
			if c == 0 {
				continue
			}
			if o.Direction == repository.Desc {
				return c > 0
			}
			return c < 0
		}
		if tieDesc {
			return out[i].seq > out[j].seq
		}
		return out[i].seq < out[j].seq
	})
	return out, nil
}

func copyRecords(recs []*record) ([]repository.Document, error) {
	out := make([]repository.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := repository.ToDocument(rec.data)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func parseCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, domain.NewError(domain.ErrInvalidArgument, "cursor inválido")
	}
	return n, nil
}

// lookup resuelve rutas con punto ("address.city").
func lookup(doc repository.Document, path string) any {
	var cur any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func matches(doc repository.Document, filters []repository.Filter) bool {
	for _, f := range filters {
		c, ok := compareFilter(lookup(doc, f.Field), f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case repository.OpEqual:
			if c != 0 {
				return false
			}
		case repository.OpLess:
			if c >= 0 {
				return false
			}
		case repository.OpLessEqual:
			if c > 0 {
				return false
			}
		case repository.OpGreater:
			if c <= 0 {
				return false
			}
		case repository.OpGreaterEqual:
			if c < 0 {
				return false
			}
		}
	}
	return true
}

// compareFilter compara el valor almacenado con el del filtro según el tipo Go del filtro,
// igual que el adaptador PostgreSQL elige el cast. ok=false si no son comparables.
func compareFilter(stored, value any) (int, bool) {
	value = repository.NormalizeValue(value)
	if stored == nil {
		return 0, value == nil
	}
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		s, ok := stored.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(s, v), true
	case bool:
		b, ok := stored.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case b == v:
			return 0, true
		case !b:
			return -1, true
		}
		return 1, true
	case time.Time:
		t, ok := asTime(stored)
		if !ok {
			return 0, false
		}
		return t.Compare(v), true
	case decimal.Decimal:
		d, ok := asDecimal(stored)
		if !ok {
			return 0, false
		}
		return d.Cmp(v), true
	case int64:
		return compareFilter(stored, decimal.NewFromInt(v))
	case float64:
		return compareFilter(stored, decimal.NewFromFloat(v))
	}
	return 0, false
}

// compareStored orden total entre valores JSON almacenados, usado por OrderBy.
// nil ordena primero; las fechas RFC3339 se comparan como instantes.
func compareStored(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if da, ok := asDecimal(a); ok {
		if db, ok := asDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}
