package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewStoreFromClient(client)
}

func TestRedisStore_SetGetExpire(t *testing.T) {
	mr, store := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "entities:people:all", []byte(`["alice"]`), 300*time.Second))

	val, err := store.Get(ctx, "entities:people:all")
	require.NoError(t, err)
	assert.JSONEq(t, `["alice"]`, string(val))
	assert.Equal(t, 300*time.Second, mr.TTL("entities:people:all"))

	mr.FastForward(301 * time.Second)

	_, err = store.Get(ctx, "entities:people:all")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Delete(t *testing.T) {
	mr, store := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	require.NoError(t, store.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))

	assert.NoError(t, store.Delete(ctx))
}

func TestRedisStore_BackendErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStoreFromClient(db)
	ctx := context.Background()

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	_, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Contains(t, err.Error(), "connection refused")

	mock.ExpectSet("k", []byte("v"), time.Minute).SetErr(errors.New("READONLY"))
	err = store.Set(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorContains(t, err, "READONLY")

	mock.ExpectDel("k").SetErr(errors.New("timeout"))
	assert.Error(t, store.Delete(ctx, "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
