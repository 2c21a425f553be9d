package reports

import (
	"context"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ClientStatsSource estadísticas de clientes.
type ClientStatsSource interface {
	Stats(ctx context.Context, caller entity.Principal) (*dto.ClientStats, error)
}

// LeadStatsSource estadísticas del embudo.
type LeadStatsSource interface {
	Stats(ctx context.Context, caller entity.Principal) (*dto.LeadStats, error)
}

// JobStatsSource estadísticas e ingresos de trabajos.
type JobStatsSource interface {
	Stats(ctx context.Context, caller entity.Principal) (*dto.JobStats, error)
	RevenueSince(ctx context.Context, caller entity.Principal, start time.Time) (decimal.Decimal, error)
}

// ProductStatsSource estadísticas del catálogo.
type ProductStatsSource interface {
	Stats(ctx context.Context, caller entity.Principal) (*dto.ProductStats, error)
}

// ActivityFeed fuente de actividad reciente.
type ActivityFeed interface {
	ByUser(ctx context.Context, userID string, limit int) ([]*entity.ActivityLog, error)
	Recent(ctx context.Context, limit int) ([]*entity.ActivityLog, error)
}
