package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value int `json:"value"`
}

func newTestCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute), mr
}

func TestReportCache_FetchJSONCachea(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return payload{Value: calls}, nil
	}

	key, err := c.BuildKey(ctx, "ipv", "loc", "2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, "ipv:loc:2024-05-10:v1", key)

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, got.Value)
}

func TestReportCache_BumpInvalida(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "ipv", "loc")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	after, err := c.BuildKey(ctx, "ipv", "loc")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	v, err := mr.Get(versionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestReportCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	var got payload
	require.NoError(t, c.FetchJSON(ctx, "k", &got, func(context.Context) (interface{}, error) { return payload{Value: 7}, nil }))
	assert.True(t, mr.Exists("k"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))
}

func TestReportCache_LoaderConError(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	var got payload
	err := c.FetchJSON(context.Background(), "k", &got, func(context.Context) (interface{}, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"), "los errores no se cachean")
}

func TestReportCache_Nil(t *testing.T) {
	var c *ReportCache
	ctx := context.Background()
	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)
	assert.NoError(t, c.Bump(ctx))

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (interface{}, error) { return payload{Value: 3}, nil }))
	assert.Equal(t, 3, got.Value)
}

func TestReportCache_BumpSoloIncrementaLaVersion(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.Bump(ctx))
	v, err := mr.Get(versionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	assert.Equal(t, []string{versionKey}, mr.Keys())
}
