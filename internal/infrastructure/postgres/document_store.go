package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DBTX lo cumplen *pgxpool.Pool y pgx.Tx, de modo que los adaptadores funcionan dentro o fuera
// de una transacción.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore implementación del puerto DocumentStore sobre la tabla documents (JSONB).
type DocumentStore struct {
	db DBTX
}

// NewDocumentStore construye el adaptador.
func NewDocumentStore(db DBTX) *DocumentStore {
	return &DocumentStore{db: db}
}

// Create inserta el documento; si no trae "id" se genera uno.
func (s *DocumentStore) Create(ctx context.Context, collection string, doc repository.Document) (string, error) {
	data, err := repository.ToDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	data["id"] = id
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("serializar %s: %w", collection, err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(raw))
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.NewError(domain.ErrAlreadyExists, fmt.Sprintf("%s/%s ya existe", collection, id))
		}
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

// Get devuelve el documento o nil si no existe.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decode(raw)
}

// Update fusiona los campos de primer nivel sobre el documento existente (operador || de jsonb).
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := repository.ToDocument(fields)
	if err != nil {
		return err
	}
	delete(patch, "id")
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("serializar parche: %w", err)
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, fmt.Sprintf("%s/%s no existe", collection, id))
	}
	return nil
}

// Delete elimina el documento.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, fmt.Sprintf("%s/%s no existe", collection, id))
	}
	return nil
}

// Query filtra, ordena y limita.
func (s *DocumentStore) Query(ctx context.Context, collection string, q repository.Query) ([]repository.Document, error) {
	sql, args, err := buildSelect(collection, q, q.Limit, 0)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, collection, sql, args)
}

// QueryPaginated el cursor es el desplazamiento dentro del resultado ordenado; se pide una fila
// de más para saber si hay otra página.
func (s *DocumentStore) QueryPaginated(ctx context.Context, collection string, q repository.Query, pageSize int, cursor string) (*repository.DocumentPage, error) {
	if pageSize <= 0 {
		return nil, domain.NewError(domain.ErrInvalidArgument, "pageSize debe ser mayor que 0")
	}
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}
	sql, args, err := buildSelect(collection, q, pageSize+1, offset)
	if err != nil {
		return nil, err
	}
	docs, err := s.fetch(ctx, collection, sql, args)
	if err != nil {
		return nil, err
	}
	page := &repository.DocumentPage{Items: docs}
	if len(docs) > pageSize {
		page.Items = docs[:pageSize]
		page.HasMore = true
		page.NextCursor = strconv.Itoa(offset + pageSize)
	}
	return page, nil
}

func (s *DocumentStore) fetch(ctx context.Context, collection, sql string, args []any) ([]repository.Document, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []repository.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return out, nil
}

func decode(raw []byte) (repository.Document, error) {
	doc := repository.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decodificar documento: %w", err)
	}
	return doc, nil
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

// codeUniqueViolation es el SQLSTATE de una clave duplicada: (collection, id) en documents o
// el email en identities.
const codeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
