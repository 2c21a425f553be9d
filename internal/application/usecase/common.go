package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Deps colaboradores compartidos por todos los casos de uso de entidades.
type Deps struct {
	Guard     *authz.Guard
	Audit     *audit.Logger
	Validator *validation.Validator
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// logged cierra una mutación ya persistida: si el registro de actividad falla, el cambio
// queda guardado y se informa como error interno.
func logged(op, id string, err error) error {
	if err == nil {
		return nil
	}
	log.Warn().Err(err).Str("op", op).Str("id", id).Msg("cambio persistido sin registro de actividad")
	return domain.NewError(domain.ErrInternal, "el cambio se guardó pero no se pudo registrar la actividad")
}

// notFound error NotFound con el recurso indicado.
func notFound(what string) error {
	return domain.NewError(domain.ErrNotFound, what+" no encontrado")
}

// normalizeEmail forma canónica para unicidad de emails.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// foldText quita acentos y pliega mayúsculas para búsquedas ("Peña" == "pena").
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// matchesTerm indica si alguno de los campos contiene el término (sin acentos ni mayúsculas).
func matchesTerm(term string, fields ...string) bool {
	term = foldText(term)
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(foldText(f), term) {
			return true
		}
	}
	return false
}

// ptrTime copia un instante para guardarlo como puntero.
func ptrTime(t time.Time) *time.Time { return &t }

// existsWithEmail indica si hay algún documento con ese email, ignorando excludeID.
func existsWithEmail[T any](ctx context.Context, repo repository.Repository[T], email, excludeID string, idOf func(*T) string) (bool, error) {
	found, err := repo.Query(ctx, repository.NewQuery().Where("email", repository.OpEqual, normalizeEmail(email)))
	if err != nil {
		return false, err
	}
	for _, item := range found {
		if idOf(item) != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ownershipOf asignaciones de un contacto (cliente o lead).
func ownershipOf(c entity.Contact) entity.Ownership {
	return entity.Ownership{AssignedSalesRep: c.AssignedSalesRep}
}

// toList arma la respuesta paginada; keep filtra ítems no visibles para quien llama
// (la página puede quedar más corta que el límite, el cursor sigue siendo válido).
func toList[T any](p *repository.Page[T], limit int, keep func(*T) bool) *dto.ListResponse[T] {
	items := make([]*T, 0, len(p.Items))
	for _, it := range p.Items {
		if keep == nil || keep(it) {
			items = append(items, it)
		}
	}
	return &dto.ListResponse[T]{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, NextCursor: p.NextCursor, HasMore: p.HasMore},
	}
}
