package audit

import (
	"reflect"
	"sort"

	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// Change valor anterior y nuevo de un campo.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeDiff campos modificados por una actualización.
type ChangeDiff map[string]Change

// Empty indica que la actualización no cambia nada.
func (d ChangeDiff) Empty() bool { return len(d) == 0 }

// Fields nombres de los campos cambiados, ordenados.
func (d ChangeDiff) Fields() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has indica si el campo cambió.
func (d ChangeDiff) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Diff compara el estado actual con una actualización parcial. Ambos lados se normalizan a
// su forma JSON; solo se consideran las claves presentes en update (una clave omitida no es
// un cambio). Los objetos se comparan sin importar el orden de claves y las listas por posición.
func Diff(existing, update any) (ChangeDiff, error) {
	before, err := repository.ToDocument(existing)
	if err != nil {
		return nil, err
	}
	after, err := repository.ToDocument(update)
	if err != nil {
		return nil, err
	}
	out := ChangeDiff{}
	for field, newValue := range after {
		oldValue := before[field]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		out[field] = Change{Old: oldValue, New: newValue}
	}
	return out, nil
}
