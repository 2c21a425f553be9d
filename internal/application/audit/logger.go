// Package audit registra el historial de actividad (append-only) y calcula los diffs de cambios.
package audit

import (
	"context"
	"fmt"

	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// DefaultFeedLimit cantidad de entradas por defecto de los feeds de actividad.
const DefaultFeedLimit = 50

// Claves de metadata que se elevan a campos de la entrada.
const (
	MetaTargetUserID       = "targetUserId"
	MetaTargetResourceID   = "targetResourceId"
	MetaTargetResourceType = "targetResourceType"
	MetaChanges            = "changes"
)

// LogStore subconjunto del repositorio que necesita el registro: solo insertar y consultar.
type LogStore interface {
	Create(ctx context.Context, doc *entity.ActivityLog, actorID string) (string, error)
	Query(ctx context.Context, q repository.Query) ([]*entity.ActivityLog, error)
}

type requestInfoKey struct{}

type requestInfo struct {
	ip        string
	userAgent string
}

// WithRequest adjunta IP y user agent de la petición al contexto para que las entradas los registren.
func WithRequest(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, requestInfo{ip: ip, userAgent: userAgent})
}

func requestFrom(ctx context.Context) requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	return info
}

// Logger escribe y lee el registro de actividad.
type Logger struct {
	store LogStore
}

// NewLogger construye el registro sobre el repositorio de activity_logs.
func NewLogger(store LogStore) *Logger {
	return &Logger{store: store}
}

// Log agrega una entrada. Devuelve InvalidLogType si el tipo no pertenece a la enumeración
// e InvalidArgument si el actor está vacío.
func (l *Logger) Log(ctx context.Context, logType entity.LogType, actorID, description string, metadata map[string]any) (string, error) {
	if !logType.Valid() {
		return "", domain.NewError(domain.ErrInvalidLogType, fmt.Sprintf("tipo de actividad inválido: %q", string(logType)))
	}
	if actorID == "" {
		return "", domain.NewError(domain.ErrInvalidArgument, "el actor de la actividad es obligatorio")
	}
	req := requestFrom(ctx)
	entry := &entity.ActivityLog{
		Type:        logType,
		UserID:      actorID,
		Description: description,
		Metadata:    metadata,
		IP:          req.ip,
		UserAgent:   req.userAgent,
	}
	entry.TargetUserID = metaString(metadata, MetaTargetUserID)
	entry.TargetResourceID = metaString(metadata, MetaTargetResourceID)
	entry.TargetResourceType = metaString(metadata, MetaTargetResourceType)

	id, err := l.store.Create(ctx, entry, actorID)
	if err != nil {
		return "", fmt.Errorf("registrar actividad %s: %w", logType, err)
	}
	log.Debug().Str("id", id).Str("type", string(logType)).Str("actor", actorID).Msg("actividad registrada")
	return id, nil
}

// LogChanges registra una actualización con su diff. No escribe nada si el diff está vacío
// o el actor es desconocido; en ese caso devuelve "", nil.
func (l *Logger) LogChanges(ctx context.Context, logType entity.LogType, actorID, description string, changes ChangeDiff, metadata map[string]any) (string, error) {
	if changes.Empty() || actorID == "" {
		return "", nil
	}
	meta := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[MetaChanges] = changes
	return l.Log(ctx, logType, actorID, description, meta)
}

// ByUser entradas cuyo actor es userID, más recientes primero.
func (l *Logger) ByUser(ctx context.Context, userID string, limit int) ([]*entity.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	q := repository.NewQuery().
		Where("userId", repository.OpEqual, userID).
		Order("createdAt", repository.Desc).
		Take(limit)
	return l.store.Query(ctx, q)
}

// ByResource entradas sobre un recurso, más recientes primero.
func (l *Logger) ByResource(ctx context.Context, resourceID, resourceType string, limit int) ([]*entity.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	q := repository.NewQuery().
		Where("targetResourceId", repository.OpEqual, resourceID).
		Where("targetResourceType", repository.OpEqual, resourceType).
		Order("createdAt", repository.Desc).
		Take(limit)
	return l.store.Query(ctx, q)
}

// Recent las últimas entradas de todo el sistema.
func (l *Logger) Recent(ctx context.Context, limit int) ([]*entity.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return l.store.Query(ctx, repository.NewQuery().Order("createdAt", repository.Desc).Take(limit))
}

func metaString(metadata map[string]any, key string) string {
	s, _ := metadata[key].(string)
	return s
}

// Target arma la metadata estándar de un recurso objetivo.
func Target(resourceType, resourceID string) map[string]any {
	return map[string]any{
		MetaTargetResourceType: resourceType,
		MetaTargetResourceID:   resourceID,
	}
}
