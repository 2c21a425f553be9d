package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect_CollectionOnly(t *testing.T) {
	sql, args, err := buildSelect("clients", repository.NewQuery(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT data FROM documents WHERE collection = $1 ORDER BY seq ASC", sql)
	assert.Equal(t, []any{"clients"}, args)
}

func TestBuildSelect_FiltersByType(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.FixedZone("COT", -5*3600))
	q := repository.NewQuery().
		Where("status", repository.OpEqual, "active").
		Where("isActive", repository.OpEqual, true).
		Where("createdAt", repository.OpGreaterEqual, at).
		Where("totalRevenue", repository.OpGreater, decimal.NewFromInt(100)).
		Where("stock", repository.OpLessEqual, 10)

	sql, args, err := buildSelect("clients", q, 0, 0)
	require.NoError(t, err)

	assert.Contains(t, sql, `COLLATE "C" = $3::text`)
	assert.Contains(t, sql, `::boolean END) = $5::boolean`)
	assert.Contains(t, sql, `::timestamptz END) >= $7::timestamptz`)
	assert.Contains(t, sql, `::numeric END) > $9::numeric`)
	assert.Contains(t, sql, `::numeric END) <= $11::numeric`)

	require.Len(t, args, 11)
	assert.Equal(t, []string{"status"}, args[1])
	assert.Equal(t, "active", args[2])
	assert.Equal(t, true, args[4])
	assert.Equal(t, at.UTC(), args[6])
	assert.Equal(t, int64(10), args[10])
}

func TestBuildSelect_NestedPath(t *testing.T) {
	q := repository.NewQuery().Where("address.city", repository.OpEqual, "Bogotá")
	_, args, err := buildSelect("clients", q, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "city"}, args[1])
}

func TestBuildSelect_NilValue(t *testing.T) {
	q := repository.NewQuery().Where("assignedTo", repository.OpEqual, nil)
	sql, args, err := buildSelect("leads", q, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, sql, "data #> $2::text[] IS NULL OR jsonb_typeof(data #> $2::text[]) = 'null'")
	assert.Len(t, args, 2)

	q = repository.NewQuery().Where("assignedTo", repository.OpLess, nil)
	sql, _, err = buildSelect("leads", q, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, sql, " AND FALSE")
}

func TestBuildSelect_OrderAndPaging(t *testing.T) {
	q := repository.NewQuery().Order("createdAt", repository.Desc).Order("name", repository.Asc)
	sql, args, err := buildSelect("activity_logs", q, 21, 40)
	require.NoError(t, err)

	assert.Contains(t, sql, "DESC NULLS LAST")
	assert.Contains(t, sql, "ASC NULLS FIRST")
	assert.Contains(t, sql, "seq DESC LIMIT $4 OFFSET $5")
	assert.Equal(t, 21, args[3])
	assert.Equal(t, 40, args[4])
}

func TestBuildSelect_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    repository.Query
	}{
		{"operador", repository.NewQuery().Where("status", repository.Operator("!="), "x")},
		{"campo vacío", repository.NewQuery().Where("address..city", repository.OpEqual, "x")},
		{"valor", repository.NewQuery().Where("tags", repository.OpEqual, []string{"a"})},
		{"orden", repository.NewQuery().Order("", repository.Asc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildSelect("clients", tt.q, 0, 0)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
		})
	}
}

func TestParseCursor(t *testing.T) {
	n, err := parseCursor("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = parseCursor("20")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = parseCursor("-1")
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	_, err = parseCursor("abc")
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert clients: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate key 23505")))
	assert.False(t, isUniqueViolation(nil))
}
