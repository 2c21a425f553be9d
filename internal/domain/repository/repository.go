package repository

import "context"

// Page página tipada de resultados.
type Page[T any] struct {
	Items      []*T
	NextCursor string
	HasMore    bool
}

// Repository puerto genérico de persistencia por tipo de entidad (DIP).
// Create y Update estampan createdAt/updatedAt y createdBy/updatedBy con actorID si no es vacío.
// GetByID devuelve nil, nil si no existe (mismo contrato que los repos PostgreSQL).
type Repository[T any] interface {
	Create(ctx context.Context, doc *T, actorID string) (string, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, patch any, actorID string) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q Query) ([]*T, error)
	QueryPaginated(ctx context.Context, q Query, pageSize int, cursor string) (*Page[T], error)
}
