package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("1.2.3.4", []byte("hits"), time.Minute))
	assert.True(t, mr.Exists(KeyPrefix+"1.2.3.4"))

	got, err := s.Get("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, []byte("hits"), got)

	require.NoError(t, s.Delete("1.2.3.4"))
	got, err = s.Get("1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorage_Expiry(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorage_ResetKeepsForeignKeys(t *testing.T) {
	s, mr := newTestStorage(t)
	require.NoError(t, mr.Set("other:key", "x"))
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())

	assert.False(t, mr.Exists(KeyPrefix+"a"))
	assert.False(t, mr.Exists(KeyPrefix+"b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestNewRedis_Errors(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	assert.ErrorContains(t, err, "parse REDIS_URL")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedis(context.Background(), "redis://"+addr)
	assert.ErrorContains(t, err, "ping redis")
}
