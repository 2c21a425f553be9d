package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T, store *memory.DocumentStore) *redis.Counter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewCounter(client, numbering.NewLastRecord(store))
}

func TestCounter_SeedsFromLastRecord(t *testing.T) {
	store := memory.NewDocumentStore()
	_, err := store.Create(context.Background(), entity.CollectionProposals, repository.Document{"proposalNumber": "PROP-2025-0041"})
	require.NoError(t, err)
	c := newCounter(t, store)
	s := numbering.ProposalNumber(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	first, err := c.Next(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "PROP-2026-0042", first)

	second, err := c.Next(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "PROP-2026-0043", second)
}

func TestCounter_ConcurrentCallsNeverRepeat(t *testing.T) {
	c := newCounter(t, memory.NewDocumentStore())
	s := numbering.JobNumber(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	// siembra la clave antes de la carrera
	_, err := c.Next(context.Background(), s)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.Next(context.Background(), s)
			assert.NoError(t, err)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
	assert.True(t, seen["JOB-202604-0021"])
}
