package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, zerolog.Nop()), mr
}

func TestRedisStore_SeenAfterMark(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	seen, err := store.Seen(ctx, "msg_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.MarkSent(ctx, "msg_1", time.Minute))
	require.NoError(t, store.MarkSent(ctx, "msg_1", time.Minute))

	seen, err = store.Seen(ctx, "msg_1")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.True(t, mr.Exists("authhook:sent:msg_1"))
	assert.Equal(t, time.Minute, mr.TTL("authhook:sent:msg_1"))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkSent(ctx, "msg_1", 10*time.Second))
	mr.FastForward(11 * time.Second)

	seen, err := store.Seen(ctx, "msg_1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisStore_DefaultTTL(t *testing.T) {
	store, mr := setupStore(t)

	require.NoError(t, store.MarkSent(context.Background(), "msg_1", 0))
	assert.Equal(t, 24*time.Hour, mr.TTL("authhook:sent:msg_1"))
}

func TestRedisStore_EmptyKey(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Seen(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, store.MarkSent(context.Background(), "", time.Minute))
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Seen(context.Background(), "msg_1")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = c.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestNoopStore(t *testing.T) {
	s := NewNoopStore()
	seen, err := s.Seen(context.Background(), "msg_1")
	assert.NoError(t, err)
	assert.False(t, seen)
	assert.NoError(t, s.MarkSent(context.Background(), "msg_1", time.Minute))
}
