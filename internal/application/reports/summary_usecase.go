// Package reports arma el resumen de negocio del panel principal.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const recentActivityLimit = 10 // entradas de actividad en el widget del resumen

// SummaryUseCase genera el resumen del mes en curso.
//
// Las estadísticas se cargan en paralelo desde los casos de uso de cada entidad;
// cada uno aplica su propia autorización además del chequeo view-reports de aquí.
type SummaryUseCase struct {
	clients  ClientStatsSource
	leads    LeadStatsSource
	jobs     JobStatsSource
	products ProductStatsSource
	activity ActivityFeed
	guard    *authz.Guard
	now      func() time.Time
}

// NewSummaryUseCase construye el caso de uso. now nil usa el reloj del sistema.
func NewSummaryUseCase(
	clients ClientStatsSource,
	leads LeadStatsSource,
	jobs JobStatsSource,
	products ProductStatsSource,
	activity ActivityFeed,
	guard *authz.Guard,
	now func() time.Time,
) *SummaryUseCase {
	if now == nil {
		now = time.Now
	}
	return &SummaryUseCase{clients: clients, leads: leads, jobs: jobs, products: products, activity: activity, guard: guard, now: now}
}

// GetSummary construye el SummaryDTO.
//
// Seis cargas en paralelo:
//  1. estadísticas de clientes, leads, trabajos y productos
//  2. ingresos de trabajos completados desde el día 1 del mes
//  3. actividad reciente (todo el sistema con access-all-data, la propia en otro caso)
func (uc *SummaryUseCase) GetSummary(ctx context.Context, caller entity.Principal) (*dto.SummaryDTO, error) {
	if err := uc.guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := &dto.SummaryDTO{DateLabel: DateLabel(now)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Clients, err = uc.clients.Stats(gctx, caller)
		return wrap("clientes", err)
	})
	g.Go(func() (err error) {
		out.Leads, err = uc.leads.Stats(gctx, caller)
		return wrap("leads", err)
	})
	g.Go(func() (err error) {
		out.Jobs, err = uc.jobs.Stats(gctx, caller)
		return wrap("trabajos", err)
	})
	g.Go(func() (err error) {
		out.Products, err = uc.products.Stats(gctx, caller)
		return wrap("productos", err)
	})
	g.Go(func() (err error) {
		out.MonthlyRevenue, err = uc.jobs.RevenueSince(gctx, caller, monthStart)
		return wrap("ingresos del mes", err)
	})
	g.Go(func() (err error) {
		if entity.HasPermission(caller.Role, string(entity.PermAccessAllData)) {
			out.RecentActivity, err = uc.activity.Recent(gctx, recentActivityLimit)
		} else {
			out.RecentActivity, err = uc.activity.ByUser(gctx, caller.ID, recentActivityLimit)
		}
		return wrap("actividad reciente", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.MonthlyRevenue = out.MonthlyRevenue.Round(2)
	return out, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("resumen: %s: %w", what, err)
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// DateLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", cases.Title(language.Spanish).String(monthNames[t.Month()-1]), t.Year())
}
