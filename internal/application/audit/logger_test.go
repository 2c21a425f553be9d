package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/docstore"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*audit.Logger, *memory.DocumentStore) {
	store := memory.NewDocumentStore()
	clock := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	logs := docstore.NewCollection[entity.ActivityLog](store, entity.CollectionActivityLogs, docstore.WithClock(tick))
	return audit.NewLogger(logs), store
}

func TestLogger_LogLiftsTargetsAndRequestInfo(t *testing.T) {
	l, store := newLogger()
	ctx := audit.WithRequest(context.Background(), "10.0.0.1", "curl/8")

	meta := map[string]any{
		"targetUserId":       "u2",
		"targetResourceId":   "u2",
		"targetResourceType": entity.ResourceUser,
		"oldRole":            "none",
	}
	id, err := l.Log(ctx, entity.LogRoleChanged, "u1", "rol cambiado", meta)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, store.Count(entity.CollectionActivityLogs))

	entries, err := l.ByResource(ctx, "u2", entity.ResourceUser, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, entity.LogRoleChanged, e.Type)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, "u2", e.TargetUserID)
	assert.Equal(t, "10.0.0.1", e.IP)
	assert.Equal(t, "curl/8", e.UserAgent)
	assert.Equal(t, "none", e.Metadata["oldRole"])
}

func TestLogger_RejectsInvalidInput(t *testing.T) {
	l, store := newLogger()
	ctx := context.Background()

	_, err := l.Log(ctx, "exploded", "u1", "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidLogType)

	_, err = l.Log(ctx, entity.LogOther, "", "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, store.Count(entity.CollectionActivityLogs))
}

func TestLogger_LogChangesSkipsEmptyDiffAndUnknownActor(t *testing.T) {
	l, store := newLogger()
	ctx := context.Background()

	id, err := l.LogChanges(ctx, entity.LogClientUpdated, "u1", "sin cambios", audit.ChangeDiff{}, nil)
	require.NoError(t, err)
	assert.Empty(t, id)

	changes := audit.ChangeDiff{"status": {Old: "lead", New: "customer"}}
	id, err = l.LogChanges(ctx, entity.LogClientUpdated, "", "sin actor", changes, nil)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, store.Count(entity.CollectionActivityLogs))

	id, err = l.LogChanges(ctx, entity.LogClientUpdated, "u1", "estado", changes, audit.Target(entity.ResourceClient, "c1"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := l.ByResource(ctx, "c1", entity.ResourceClient, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	recorded, ok := entries[0].Metadata["changes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, recorded, "status")
}

func TestLogger_ByUserNewestFirstWithLimit(t *testing.T) {
	l, _ := newLogger()
	ctx := context.Background()
	for _, d := range []string{"primero", "segundo", "tercero"} {
		_, err := l.Log(ctx, entity.LogOther, "u1", d, nil)
		require.NoError(t, err)
	}
	_, err := l.Log(ctx, entity.LogOther, "u2", "ajeno", nil)
	require.NoError(t, err)

	entries, err := l.ByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "tercero", entries[0].Description)
	assert.Equal(t, "segundo", entries[1].Description)
}
