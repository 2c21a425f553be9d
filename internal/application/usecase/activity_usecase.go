package usecase

import (
	"context"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
)

// ActivityUseCase lectura del historial de actividad.
type ActivityUseCase struct {
	Deps
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(deps Deps) *ActivityUseCase {
	return &ActivityUseCase{Deps: deps}
}

// ByUser actividad de un usuario; la propia siempre, la de otros con access-all-data.
func (uc *ActivityUseCase) ByUser(ctx context.Context, caller entity.Principal, userID string, limit int) ([]*entity.ActivityLog, error) {
	if err := uc.Guard.AuthorizeActivityFeed(caller, userID); err != nil {
		return nil, err
	}
	return uc.Audit.ByUser(ctx, userID, limit)
}

// ByResource actividad sobre un recurso.
func (uc *ActivityUseCase) ByResource(ctx context.Context, caller entity.Principal, resourceType, resourceID string, limit int) ([]*entity.ActivityLog, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessAllData); err != nil {
		return nil, err
	}
	return uc.Audit.ByResource(ctx, resourceID, resourceType, limit)
}

// Recent últimas entradas de todo el sistema.
func (uc *ActivityUseCase) Recent(ctx context.Context, caller entity.Principal, limit int) ([]*entity.ActivityLog, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessAllData); err != nil {
		return nil, err
	}
	return uc.Audit.Recent(ctx, limit)
}
