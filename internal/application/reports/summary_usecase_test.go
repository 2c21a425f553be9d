package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/reports"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClients struct{ err error }

func (s stubClients) Stats(context.Context, entity.Principal) (*dto.ClientStats, error) {
	return &dto.ClientStats{Total: 4}, s.err
}

type stubLeads struct{}

func (stubLeads) Stats(context.Context, entity.Principal) (*dto.LeadStats, error) {
	return &dto.LeadStats{Total: 7, ConversionRate: 25}, nil
}

type stubJobs struct{ since time.Time }

func (s *stubJobs) Stats(context.Context, entity.Principal) (*dto.JobStats, error) {
	return &dto.JobStats{Total: 3}, nil
}

func (s *stubJobs) RevenueSince(_ context.Context, _ entity.Principal, start time.Time) (decimal.Decimal, error) {
	s.since = start
	return decimal.RequireFromString("7000.456"), nil
}

type stubProducts struct{}

func (stubProducts) Stats(context.Context, entity.Principal) (*dto.ProductStats, error) {
	return &dto.ProductStats{Total: 12}, nil
}

type stubFeed struct{ recent, own int }

func (f *stubFeed) ByUser(context.Context, string, int) ([]*entity.ActivityLog, error) {
	f.own++
	return []*entity.ActivityLog{{Type: entity.LogLogin}}, nil
}

func (f *stubFeed) Recent(context.Context, int) ([]*entity.ActivityLog, error) {
	f.recent++
	return []*entity.ActivityLog{{Type: entity.LogClientCreated}, {Type: entity.LogLogin}}, nil
}

func fixedNow() time.Time { return time.Date(2026, 2, 17, 15, 30, 0, 0, time.UTC) }

func TestGetSummary_LoadsEverything(t *testing.T) {
	jobs := &stubJobs{}
	feed := &stubFeed{}
	uc := reports.NewSummaryUseCase(stubClients{}, stubLeads{}, jobs, stubProducts{}, feed,
		authz.NewGuard(memory.NewIdentityProvider()), fixedNow)

	out, err := uc.GetSummary(context.Background(), entity.Principal{ID: "o", Role: entity.RoleOwner})
	require.NoError(t, err)

	assert.Equal(t, 4, out.Clients.Total)
	assert.Equal(t, 7, out.Leads.Total)
	assert.Equal(t, 3, out.Jobs.Total)
	assert.Equal(t, 12, out.Products.Total)
	assert.Equal(t, "7000.46", out.MonthlyRevenue.String())
	assert.Equal(t, "Febrero 2026", out.DateLabel)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), jobs.since)
	assert.Len(t, out.RecentActivity, 2)
	assert.Equal(t, 1, feed.recent)
}

func TestGetSummary_SalesRepSeesOwnActivity(t *testing.T) {
	feed := &stubFeed{}
	uc := reports.NewSummaryUseCase(stubClients{}, stubLeads{}, &stubJobs{}, stubProducts{}, feed,
		authz.NewGuard(memory.NewIdentityProvider()), fixedNow)

	out, err := uc.GetSummary(context.Background(), entity.Principal{ID: "r", Role: entity.RoleSalesRep})
	require.NoError(t, err)
	assert.Len(t, out.RecentActivity, 1)
	assert.Equal(t, 0, feed.recent)
	assert.Equal(t, 1, feed.own)
}

func TestGetSummary_RequiresViewReports(t *testing.T) {
	uc := reports.NewSummaryUseCase(stubClients{}, stubLeads{}, &stubJobs{}, stubProducts{}, &stubFeed{},
		authz.NewGuard(memory.NewIdentityProvider()), fixedNow)

	_, err := uc.GetSummary(context.Background(), entity.Principal{ID: "t", Role: entity.RoleTechnician})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestGetSummary_PropagatesSourceErrors(t *testing.T) {
	boom := errors.New("store down")
	uc := reports.NewSummaryUseCase(stubClients{err: boom}, stubLeads{}, &stubJobs{}, stubProducts{}, &stubFeed{},
		authz.NewGuard(memory.NewIdentityProvider()), fixedNow)

	_, err := uc.GetSummary(context.Background(), entity.Principal{ID: "o", Role: entity.RoleOwner})
	assert.ErrorIs(t, err, boom)
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "Septiembre 2025", reports.DateLabel(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
}
