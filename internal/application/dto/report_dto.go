package dto

import (
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SummaryDTO respuesta del resumen de negocio: las cuatro estadísticas se cargan en paralelo.
type SummaryDTO struct {
	Clients        *ClientStats          `json:"clients"`
	Leads          *LeadStats            `json:"leads"`
	Jobs           *JobStats             `json:"jobs"`
	Products       *ProductStats         `json:"products"`
	MonthlyRevenue decimal.Decimal       `json:"monthlyRevenue"` // trabajos completados en el mes en curso
	DateLabel      string                `json:"dateLabel"`      // ej: "Febrero 2026"
	RecentActivity []*entity.ActivityLog `json:"recentActivity"`
}
