// Package validation envuelve go-playground/validator con las reglas del dominio y mensajes en español.
// Todas las violaciones se reportan juntas en un único domain.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	phonePattern      = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,}$`)
	postalCodePattern = regexp.MustCompile(`^[A-Za-z0-9\s\-]{3,10}$`)
)

// Validator valida structs anotados con `validate:"..."`.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New registra las reglas propias:
//   - phone: al menos 10 caracteres entre dígitos, espacios, guiones, + y paréntesis.
//   - postalcode: 3 a 10 caracteres alfanuméricos, espacios o guiones.
//   - trimmin=N: longitud mínima ignorando espacios en los extremos.
//   - future: la fecha no es anterior al día actual.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock igual que New con reloj inyectable.
func NewWithClock(now func() time.Time) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	out := &Validator{v: v, now: now}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
	})
	mustRegister(v, "future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		now := out.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return !t.Before(today)
	})
	return out
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registrar %s: %v", tag, err))
	}
}

// Collect devuelve todos los mensajes de error del struct (vacío si es válido).
func (v *Validator) Collect(s any) []string {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

// Struct valida y devuelve un domain.ErrValidation con todos los mensajes, o nil.
func (v *Validator) Struct(s any) error {
	return Result(v.Collect(s))
}

// Result convierte una lista de mensajes en error de validación (nil si está vacía).
func Result(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return domain.NewValidationError(msgs)
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", field)
	case "url":
		return fmt.Sprintf("%s debe ser una URL válida", field)
	case "phone":
		return fmt.Sprintf("%s debe ser un teléfono válido (mínimo 10 dígitos)", field)
	case "postalcode":
		return fmt.Sprintf("%s debe ser un código postal válido", field)
	case "trimmin":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "min":
		if isText(fe) {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "max":
		if isText(fe) {
			return fmt.Sprintf("%s no puede superar %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "future":
		return fmt.Sprintf("%s no puede estar en el pasado", field)
	case "len":
		return fmt.Sprintf("%s debe tener exactamente %s caracteres", field, fe.Param())
	}
	return fmt.Sprintf("%s no es válido (%s)", field, fe.Tag())
}

// fieldPath ruta del campo con nombres JSON ("address.city"). Se descartan el struct raíz
// y los structs embebidos, que no aportan segmento en el JSON.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts[1:] {
		if p != "" && unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}

func isText(fe validator.FieldError) bool {
	k := fe.Kind()
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}
