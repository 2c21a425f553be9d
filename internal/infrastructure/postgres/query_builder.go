package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Expresiones tipadas sobre data #> path. Cada CASE devuelve NULL cuando el valor almacenado no es
// del tipo del filtro, de modo que la fila no coincide (igual que el almacén en memoria).
const (
	numericPattern   = `^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`
	timestampPattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}T`
)

var sqlOperators = map[repository.Operator]string{
	repository.OpEqual:        "=",
	repository.OpLess:         "<",
	repository.OpLessEqual:    "<=",
	repository.OpGreater:      ">",
	repository.OpGreaterEqual: ">=",
}

// queryBuilder arma un SELECT sobre la tabla documents con parámetros posicionales.
type queryBuilder struct {
	args []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// buildSelect devuelve el SQL y sus argumentos. limit <= 0 no limita.
func buildSelect(collection string, q repository.Query, limit, offset int) (string, []any, error) {
	b := &queryBuilder{}
	var sb strings.Builder
	sb.WriteString("SELECT data FROM documents WHERE collection = ")
	sb.WriteString(b.arg(collection))

	for _, f := range q.Filters {
		cond, err := b.filter(f)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND ")
		sb.WriteString(cond)
	}

	sb.WriteString(" ORDER BY ")
	for _, o := range q.OrderBy {
		keys, err := b.order(o)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(keys)
		sb.WriteString(", ")
	}
	if len(q.OrderBy) > 0 && q.OrderBy[0].Direction == repository.Desc {
		sb.WriteString("seq DESC")
	} else {
		sb.WriteString("seq ASC")
	}

	if limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.arg(limit))
	}
	if offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(b.arg(offset))
	}
	return sb.String(), b.args, nil
}

func (b *queryBuilder) path(field string) (string, error) {
	parts := strings.Split(field, ".")
	for _, p := range parts {
		if p == "" {
			return "", domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("campo inválido: %q", field))
		}
	}
	return b.arg(parts) + "::text[]", nil
}

func (b *queryBuilder) filter(f repository.Filter) (string, error) {
	op, ok := sqlOperators[f.Op]
	if !ok {
		return "", domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("operador no soportado: %q", f.Op))
	}
	p, err := b.path(f.Field)
	if err != nil {
		return "", err
	}
	switch v := repository.NormalizeValue(f.Value).(type) {
	case nil:
		if f.Op != repository.OpEqual {
			return "FALSE", nil
		}
		return fmt.Sprintf("(data #> %[1]s IS NULL OR jsonb_typeof(data #> %[1]s) = 'null')", p), nil
	case string:
		return fmt.Sprintf("%s %s %s::text", textExpr(p), op, b.arg(v)), nil
	case bool:
		return fmt.Sprintf("%s %s %s::boolean", boolExpr(p), op, b.arg(v)), nil
	case time.Time:
		return fmt.Sprintf("%s %s %s::timestamptz", timeExpr(p), op, b.arg(v.UTC())), nil
	case decimal.Decimal:
		return fmt.Sprintf("%s %s %s::numeric", numericExpr(p), op, b.arg(v)), nil
	case int64:
		return fmt.Sprintf("%s %s %s::numeric", numericExpr(p), op, b.arg(v)), nil
	case float64:
		return fmt.Sprintf("%s %s %s::numeric", numericExpr(p), op, b.arg(v)), nil
	default:
		return "", domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("valor de filtro no soportado para %s: %T", f.Field, f.Value))
	}
}

// order ordena por número, luego por instante y por último por texto; NULL primero en ASC
// y último en DESC.
func (b *queryBuilder) order(o repository.Order) (string, error) {
	p, err := b.path(o.Field)
	if err != nil {
		return "", err
	}
	dir := "ASC NULLS FIRST"
	if o.Direction == repository.Desc {
		dir = "DESC NULLS LAST"
	}
	return fmt.Sprintf("%[1]s %[4]s, %[2]s %[4]s, %[3]s %[4]s",
		numericExpr(p), timeExpr(p), textExpr(p), dir), nil
}

func textExpr(p string) string {
	return fmt.Sprintf(`(CASE WHEN jsonb_typeof(data #> %[1]s) = 'string' THEN data #>> %[1]s END) COLLATE "C"`, p)
}

func boolExpr(p string) string {
	return fmt.Sprintf(`(CASE WHEN jsonb_typeof(data #> %[1]s) = 'boolean' THEN (data #>> %[1]s)::boolean END)`, p)
}

func numericExpr(p string) string {
	return fmt.Sprintf(`(CASE WHEN jsonb_typeof(data #> %[1]s) IN ('number', 'string') AND (data #>> %[1]s) ~ '%[2]s' THEN (data #>> %[1]s)::numeric END)`,
		p, numericPattern)
}

func timeExpr(p string) string {
	return fmt.Sprintf(`(CASE WHEN jsonb_typeof(data #> %[1]s) = 'string' AND (data #>> %[1]s) ~ '%[2]s' THEN (data #>> %[1]s)::timestamptz END)`,
		p, timestampPattern)
}
