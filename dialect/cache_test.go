package dialect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenlabs/grasshopper/dialect"
)

type countingQuerier struct {
	calls int
	rows  []map[string]any
	err   error
}

func (q *countingQuerier) Query(context.Context, string, map[string]any) ([]map[string]any, error) {
	q.calls++
	return q.rows, q.err
}

func TestCacheKey(t *testing.T) {
	a := dialect.CacheKey("MATCH (n) RETURN n;", map[string]any{"x": 1, "y": 2})
	b := dialect.CacheKey("MATCH (n) RETURN n;", map[string]any{"y": 2, "x": 1})
	assert.Equal(t, a, b)

	c := dialect.CacheKey("MATCH (n) RETURN n;", map[string]any{"x": 2, "y": 2})
	assert.NotEqual(t, a, c)

	bare := dialect.CacheKey("MATCH (n) RETURN n;", nil)
	assert.Equal(t, "MATCH (n) RETURN n;", bare)
}

func TestCachedQuerier(t *testing.T) {
	ctx := context.Background()
	next := &countingQuerier{rows: []map[string]any{{"n": 1}}}
	q := dialect.NewCachedQuerier(next, dialect.NewMemoryCache(), 0)

	rows, err := q.Query(ctx, "MATCH (n) RETURN n;", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	_, err = q.Query(ctx, "MATCH (n) RETURN n;", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	// A different parameter set misses.
	_, err = q.Query(ctx, "MATCH (n) RETURN n;", map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedQuerierNeverCachesFailures(t *testing.T) {
	ctx := context.Background()
	next := &countingQuerier{err: errors.New("boom")}
	q := dialect.NewCachedQuerier(next, dialect.NewMemoryCache(), time.Minute)

	_, err := q.Query(ctx, "MATCH (n) RETURN n;", nil)
	require.Error(t, err)
	_, err = q.Query(ctx, "MATCH (n) RETURN n;", nil)
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := dialect.NewMemoryCache()
	c.Set(ctx, "k", []map[string]any{{"n": 1}}, time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []map[string]any{{"n": 1}}, 0)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok)
	c.Clear(ctx)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}
