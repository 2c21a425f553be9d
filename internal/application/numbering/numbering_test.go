package numbering_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemes(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "JOB-202603-0007", numbering.JobNumber(now).Format(7))
	assert.Equal(t, "PROP-2026-0012", numbering.ProposalNumber(now).Format(12))
	assert.Equal(t, "PAN-26-0001", numbering.ProductSKU(entity.CategoryPanel, now).Format(1))
	assert.Equal(t, "INV-26-0003", numbering.ProductSKU(entity.CategoryInverter, now).Format(3))
	assert.Equal(t, "GEN-26-0001", numbering.ProductSKU("", now).Format(1))
}

func TestParseSuffix(t *testing.T) {
	n, ok := numbering.ParseSuffix("JOB-202603-0041")
	assert.True(t, ok)
	assert.Equal(t, 41, n)

	_, ok = numbering.ParseSuffix("JOB-202603-")
	assert.False(t, ok)
	_, ok = numbering.ParseSuffix("sinsufijo")
	assert.False(t, ok)
}

func create(t *testing.T, store *memory.DocumentStore, collection, field, value string) {
	t.Helper()
	_, err := store.Create(context.Background(), collection, repository.Document{field: value})
	require.NoError(t, err)
}

func TestLastRecord_FirstIsOne(t *testing.T) {
	g := numbering.NewLastRecord(memory.NewDocumentStore())
	next, err := g.Next(context.Background(), numbering.JobNumber(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "JOB-202601-0001", next)
}

func TestLastRecord_SequenceContinuesAcrossMonths(t *testing.T) {
	store := memory.NewDocumentStore()
	create(t, store, entity.CollectionJobs, "jobNumber", "JOB-202601-0001")
	create(t, store, entity.CollectionJobs, "jobNumber", "JOB-202601-0002")
	g := numbering.NewLastRecord(store)

	next, err := g.Next(context.Background(), numbering.JobNumber(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "JOB-202602-0003", next)
}

func TestLastRecord_SKUIsScopedByCategory(t *testing.T) {
	store := memory.NewDocumentStore()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	create(t, store, entity.CollectionProducts, "sku", "PAN-26-0004")
	create(t, store, entity.CollectionProducts, "sku", "INV-26-0009")
	g := numbering.NewLastRecord(store)

	next, err := g.Next(context.Background(), numbering.ProductSKU(entity.CategoryPanel, now))
	require.NoError(t, err)
	assert.Equal(t, "PAN-26-0005", next)

	next, err = g.Next(context.Background(), numbering.ProductSKU(entity.CategoryBattery, now))
	require.NoError(t, err)
	assert.Equal(t, "BAT-26-0001", next)
}
