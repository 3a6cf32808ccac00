package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Hour), s
}

func TestKeyDependsOnContentAndFormat(t *testing.T) {
	a := Key("pdf", []byte("hello"))
	assert.Equal(t, a, Key("pdf", []byte("hello")))
	assert.NotEqual(t, a, Key("csv", []byte("hello")))
	assert.NotEqual(t, a, Key("pdf", []byte("hello!")))
	assert.Contains(t, a, "extract:pdf:")
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()
	key := Key("pdf", []byte("doc"))

	miss, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	table := model.ReportTable{Records: []model.StudentRecord{
		{SeatNumber: "T1", SGPA: null.Float64From(8.5), TotalCredits: null.IntFrom(22)},
		{SeatNumber: "T2"},
	}}
	require.NoError(t, c.Set(ctx, key, table))
	assert.True(t, s.Exists(key))
	assert.Equal(t, time.Hour, s.TTL(key))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, table.Records, got.Records)
}

func TestRedisCacheDropsCorruptEntry(t *testing.T) {
	c, s := newTestCache(t)
	require.NoError(t, s.Set("extract:pdf:bad", "{not json"))

	got, err := c.Get(context.Background(), "extract:pdf:bad")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, s.Exists("extract:pdf:bad"))
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	c, err := Connect(ctx, "", 0, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)

	s := miniredis.RunT(t)
	c, err = Connect(ctx, s.Addr(), 0, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)

	s.Close()
	_, err = Connect(ctx, s.Addr(), 0, time.Hour)
	assert.Error(t, err)
}
