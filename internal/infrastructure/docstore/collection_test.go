package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/docstore"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestCollection_CreateStampsBookkeeping(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	clients := docstore.NewCollection[entity.Client](memory.NewDocumentStore(), entity.CollectionClients, docstore.WithClock(fixedClock(now)))

	c := &entity.Client{Contact: entity.Contact{FirstName: "Ana", Email: "ana@x.com"}, TotalRevenue: decimal.NewFromInt(0)}
	id, err := clients.Create(ctx, c, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.True(t, now.Equal(c.CreatedAt))
	assert.Equal(t, "owner-1", c.CreatedBy)

	got, err := clients.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "owner-1", got.UpdatedBy)
	assert.True(t, got.TotalRevenue.IsZero())
}

func TestCollection_UpdatePatchOnlyTouchesGivenFields(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	clock := created
	clients := docstore.NewCollection[entity.Client](memory.NewDocumentStore(), entity.CollectionClients,
		docstore.WithClock(func() time.Time { return clock }))

	id, err := clients.Create(ctx, &entity.Client{Contact: entity.Contact{FirstName: "Ana", LastName: "Ruiz"}, Status: "lead"}, "u1")
	require.NoError(t, err)

	clock = later
	status := "customer"
	patch := struct {
		Status *string `json:"status,omitempty"`
	}{Status: &status}
	require.NoError(t, clients.Update(ctx, id, patch, "u2"))

	got, err := clients.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "customer", got.Status)
	assert.Equal(t, "Ruiz", got.LastName)
	assert.Equal(t, "u1", got.CreatedBy)
	assert.Equal(t, "u2", got.UpdatedBy)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, later.Equal(got.UpdatedAt))
}

func TestCollection_QueryAndPaginate(t *testing.T) {
	ctx := context.Background()
	jobs := docstore.NewCollection[entity.Job](memory.NewDocumentStore(), entity.CollectionJobs)
	for _, st := range []string{"pending", "completed", "completed"} {
		_, err := jobs.Create(ctx, &entity.Job{Title: "t", Status: st}, "u")
		require.NoError(t, err)
	}
	done, err := jobs.Query(ctx, repository.NewQuery().Where("status", repository.OpEqual, entity.JobStatusCompleted))
	require.NoError(t, err)
	assert.Len(t, done, 2)

	page, err := jobs.QueryPaginated(ctx, repository.NewQuery().Order("createdAt", repository.Desc), 2, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)

	missing, err := jobs.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
