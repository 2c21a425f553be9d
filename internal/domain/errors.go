package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas). Cada uno corresponde a un tipo (Kind)
// que la capa HTTP traduce a un código de estado.
var (
	ErrUnauthenticated  = errors.New("el usuario debe estar autenticado")
	ErrInvalidArgument  = errors.New("argumento inválido")
	ErrPermissionDenied = errors.New("permisos insuficientes")
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrValidation       = errors.New("datos inválidos")
	ErrAlreadyExists    = errors.New("el recurso ya existe")
	ErrInvalidRole      = errors.New("rol inválido")
	ErrInvalidLogType   = errors.New("tipo de registro de actividad inválido")
	ErrInternal         = errors.New("error interno")
)

// Kind clasifica un error para quien llama (errores del llamador vs. errores del sistema).
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindInvalidArgument  Kind = "invalid_argument"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindAlreadyExists    Kind = "already_exists"
	KindInvalidRole      Kind = "invalid_role"
	KindInvalidLogType   Kind = "invalid_log_type"
	KindInternal         Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrPermissionDenied, KindPermissionDenied},
	{ErrNotFound, KindNotFound},
	{ErrValidation, KindValidation},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrInvalidRole, KindInvalidRole},
	{ErrInvalidLogType, KindInvalidLogType},
}

// Error envuelve un error de dominio con un mensaje legible y, para validaciones,
// la lista completa de reglas incumplidas.
type Error struct {
	Err     error
	Message string
	Details []string
}

// Error implementa la interfaz error.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, "; ")
	}
	return e.Message
}

// Unwrap permite errors.Is / errors.As contra los sentinelas.
func (e *Error) Unwrap() error { return e.Err }

// NewError crea un error de dominio con mensaje propio.
func NewError(err error, message string) *Error {
	return &Error{Err: err, Message: message}
}

// NewValidationError agrupa todas las reglas incumplidas en un único error.
func NewValidationError(details []string) *Error {
	return &Error{Err: ErrValidation, Message: ErrValidation.Error(), Details: details}
}

// KindOf devuelve el tipo del error. Todo error no reconocido se considera interno.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsCallerError indica si el error es atribuible a quien llama (equivalente 4xx).
func IsCallerError(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindInternal
}

// DetailsOf devuelve los mensajes de validación si el error los contiene.
func DetailsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// MessageOf devuelve el mensaje público del error; los errores internos nunca exponen detalles.
func MessageOf(err error) string {
	if KindOf(err) == KindInternal {
		return ErrInternal.Error()
	}
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return err.Error()
}
