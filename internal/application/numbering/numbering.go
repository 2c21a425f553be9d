// Package numbering genera identificadores secuenciales legibles (JOB-YYYYMM-NNNN, PROP-YYYY-NNNN, SKU).
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// DefaultWidth ancho del sufijo numérico.
const DefaultWidth = 4

// Scheme describe una secuencia: dónde buscar el último valor (Collection, Field, Scope)
// y cómo formatear el siguiente (Prefix + sufijo de Width dígitos).
// Scope es el prefijo común a toda la secuencia; Prefix puede ser más específico (p. ej. el mes).
type Scheme struct {
	Collection string
	Field      string
	Prefix     string
	Scope      string
	Width      int
}

// Format arma el identificador n de la secuencia.
func (s Scheme) Format(n int) string {
	width := s.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return fmt.Sprintf("%s%0*d", s.Prefix, width, n)
}

// JobNumber JOB-YYYYMM-NNNN. La secuencia no se reinicia al cambiar de mes.
func JobNumber(now time.Time) Scheme {
	return Scheme{
		Collection: entity.CollectionJobs,
		Field:      "jobNumber",
		Prefix:     fmt.Sprintf("JOB-%04d%02d-", now.Year(), int(now.Month())),
		Scope:      "JOB-",
		Width:      DefaultWidth,
	}
}

// ProposalNumber PROP-YYYY-NNNN.
func ProposalNumber(now time.Time) Scheme {
	return Scheme{
		Collection: entity.CollectionProposals,
		Field:      "proposalNumber",
		Prefix:     fmt.Sprintf("PROP-%04d-", now.Year()),
		Scope:      "PROP-",
		Width:      DefaultWidth,
	}
}

// ProductSKU CAT-YY-NNNN donde CAT son las tres primeras letras de la categoría en mayúsculas.
// La secuencia es por categoría.
func ProductSKU(category string, now time.Time) Scheme {
	cat := categoryCode(category)
	return Scheme{
		Collection: entity.CollectionProducts,
		Field:      "sku",
		Prefix:     fmt.Sprintf("%s-%02d-", cat, now.Year()%100),
		Scope:      cat + "-",
		Width:      DefaultWidth,
	}
}

func categoryCode(category string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(category) {
		if b.Len() == 3 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "GEN"
	}
	return b.String()
}

// ParseSuffix extrae el sufijo numérico final del identificador.
func ParseSuffix(id string) (int, bool) {
	i := strings.LastIndex(id, "-")
	if i < 0 || i == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Generator estrategia para obtener el siguiente identificador.
type Generator interface {
	Next(ctx context.Context, s Scheme) (string, error)
}

// Seeder devuelve el último sufijo emitido para la secuencia (0 si no hay ninguno).
type Seeder interface {
	Last(ctx context.Context, s Scheme) (int, error)
}

// LastRecord lee el registro más reciente cuyo campo empieza con el Scope y suma uno.
// Es best effort: dos altas concurrentes pueden obtener el mismo número.
type LastRecord struct {
	store repository.DocumentStore
}

// NewLastRecord construye la estrategia por defecto.
func NewLastRecord(store repository.DocumentStore) *LastRecord {
	return &LastRecord{store: store}
}

// Last sufijo del registro más reciente de la secuencia.
func (g *LastRecord) Last(ctx context.Context, s Scheme) (int, error) {
	q := repository.NewQuery().
		Where(s.Field, repository.OpGreaterEqual, s.Scope).
		Where(s.Field, repository.OpLess, upperBound(s.Scope)).
		Order("createdAt", repository.Desc).
		Take(1)
	docs, err := g.store.Query(ctx, s.Collection, q)
	if err != nil {
		return 0, fmt.Errorf("consultar último %s: %w", s.Field, err)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	value, _ := docs[0][s.Field].(string)
	n, ok := ParseSuffix(value)
	if !ok {
		return 0, nil
	}
	return n, nil
}

// Next último sufijo + 1 con el prefijo actual.
func (g *LastRecord) Next(ctx context.Context, s Scheme) (string, error) {
	n, err := g.Last(ctx, s)
	if err != nil {
		return "", err
	}
	return s.Format(n + 1), nil
}

// upperBound menor string mayor que todos los que empiezan con prefix (comparación por bytes).
func upperBound(prefix string) string {
	if prefix == "" {
		return "\xff"
	}
	b := []byte(prefix)
	b[len(b)-1]++
	return string(b)
}
