// Package docstore adapta un repository.DocumentStore a repositorios tipados por entidad.
package docstore

import (
	"context"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// Collection implementa repository.Repository[T] sobre una colección del almacén de documentos.
// T debe ser un struct que embebe entity.Base (id, createdAt, updatedAt, createdBy, updatedBy).
type Collection[T any] struct {
	store repository.DocumentStore
	name  string
	now   func() time.Time
}

// Option configura una Collection.
type Option func(*collectionOptions)

type collectionOptions struct {
	now func() time.Time
}

// WithClock reemplaza el reloj usado para createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *collectionOptions) { o.now = now }
}

// NewCollection construye el repositorio tipado de la colección name.
func NewCollection[T any](store repository.DocumentStore, name string, opts ...Option) *Collection[T] {
	o := collectionOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{store: store, name: name, now: o.now}
}

// Name nombre de la colección.
func (c *Collection[T]) Name() string { return c.name }

// Create inserta doc estampando los campos de auditoría y devuelve el id asignado.
// doc queda actualizado con el id y las marcas de tiempo.
func (c *Collection[T]) Create(ctx context.Context, doc *T, actorID string) (string, error) {
	data, err := repository.ToDocument(doc)
	if err != nil {
		return "", err
	}
	now := c.now().UTC()
	data["createdAt"] = now
	data["updatedAt"] = now
	if actorID != "" {
		data["createdBy"] = actorID
		data["updatedBy"] = actorID
	}
	if id, _ := data["id"].(string); id == "" {
		delete(data, "id")
	}
	id, err := c.store.Create(ctx, c.name, data)
	if err != nil {
		return "", err
	}
	data["id"] = id
	if err := repository.FromDocument(data, doc); err != nil {
		return "", err
	}
	return id, nil
}

// GetByID devuelve nil, nil si no existe.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	data, err := c.store.Get(ctx, c.name, id)
	if err != nil || data == nil {
		return nil, err
	}
	return decode[T](data)
}

// Update aplica un parche parcial (struct con omitempty o repository.Document) y estampa updatedAt/updatedBy.
func (c *Collection[T]) Update(ctx context.Context, id string, patch any, actorID string) error {
	data, err := repository.ToDocument(patch)
	if err != nil {
		return err
	}
	delete(data, "id")
	delete(data, "createdAt")
	delete(data, "createdBy")
	data["updatedAt"] = c.now().UTC()
	if actorID != "" {
		data["updatedBy"] = actorID
	}
	return c.store.Update(ctx, c.name, id, data)
}

// Delete elimina el documento.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// Query ejecuta la consulta y decodifica los resultados.
func (c *Collection[T]) Query(ctx context.Context, q repository.Query) ([]*T, error) {
	docs, err := c.store.Query(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// QueryPaginated página tipada; el cursor es opaco para el llamador.
func (c *Collection[T]) QueryPaginated(ctx context.Context, q repository.Query, pageSize int, cursor string) (*repository.Page[T], error) {
	page, err := c.store.QueryPaginated(ctx, c.name, q, pageSize, cursor)
	if err != nil {
		return nil, err
	}
	items, err := decodeAll[T](page.Items)
	if err != nil {
		return nil, err
	}
	return &repository.Page[T]{Items: items, NextCursor: page.NextCursor, HasMore: page.HasMore}, nil
}

func decode[T any](data repository.Document) (*T, error) {
	out := new(T)
	if err := repository.FromDocument(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeAll[T any](docs []repository.Document) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		item, err := decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
